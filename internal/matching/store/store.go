package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rbatista/grana/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindRule picks the most specific rule whose pattern appears in the raw
// description, most recent first on ties.
func (s *Store) FindRule(ctx context.Context, rawDescription string) (*matching.Suggestion, error) {
	query := `
		SELECT description, category, flow
		FROM category_rules
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var sg matching.Suggestion

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&sg.Description, &sg.Category, &sg.Flow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding rule: %w", err)
	}

	return &sg, nil
}

func (s *Store) CreateRule(ctx context.Context, rawPattern string, sg matching.Suggestion) error {
	query := `
		INSERT INTO category_rules (raw_pattern, description, category, flow, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (raw_pattern) DO UPDATE
		SET description = EXCLUDED.description, category = EXCLUDED.category, flow = EXCLUDED.flow
	`

	_, err := s.db.ExecContext(ctx, query, rawPattern, sg.Description, sg.Category, sg.Flow)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}
