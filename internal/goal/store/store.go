package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rbatista/grana/internal/goal"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(s scanner) (*goal.SavingsGoal, error) {
	var g goal.SavingsGoal

	if err := s.Scan(
		&g.ID, &g.AccountID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &g, nil
}

const selectGoalColumns = `
	id, account_id, name, target_amount, current_amount, deadline, created_at
`

func (s *Store) Create(ctx context.Context, g *goal.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (account_id, name, target_amount, current_amount, deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		g.AccountID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*goal.SavingsGoal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM savings_goals WHERE id = $1`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) List(ctx context.Context) ([]goal.SavingsGoal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM savings_goals ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []goal.SavingsGoal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, *g)
	}

	return goals, rows.Err()
}

func (s *Store) Update(ctx context.Context, g *goal.SavingsGoal) error {
	query := `
		UPDATE savings_goals
		SET account_id = $1, name = $2, target_amount = $3, current_amount = $4, deadline = $5
		WHERE id = $6
	`

	_, err := s.db.ExecContext(ctx, query,
		g.AccountID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goal.ErrNotFound
	}

	return nil
}
