package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rbatista/grana/internal/schedule"
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

func scanAppointment(s scanner) (*schedule.Appointment, error) {
	var appt schedule.Appointment

	if err := s.Scan(
		&appt.ID, &appt.Title, &appt.Date, &appt.Slot, &appt.Notes, &appt.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &appt, nil
}

const selectAppointmentColumns = `
	id, title, date, slot, notes, created_at
`

func (s *Store) Create(ctx context.Context, appt *schedule.Appointment) error {
	query := `
		INSERT INTO appointments (title, date, slot, notes, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		appt.Title, appt.Date, appt.Slot, appt.Notes,
	).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating appointment: %w", err)
	}

	return nil
}

func (s *Store) ListByDate(ctx context.Context, date time.Time) ([]schedule.Appointment, error) {
	query := `SELECT ` + selectAppointmentColumns + ` FROM appointments WHERE date = $1 ORDER BY slot ASC`

	return s.list(ctx, query, date)
}

func (s *Store) ListFrom(ctx context.Context, date time.Time) ([]schedule.Appointment, error) {
	query := `SELECT ` + selectAppointmentColumns + ` FROM appointments WHERE date >= $1 ORDER BY date ASC, slot ASC`

	return s.list(ctx, query, date)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]schedule.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	defer rows.Close()

	var appts []schedule.Appointment

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning appointment: %w", err)
		}

		appts = append(appts, *appt)
	}

	return appts, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return schedule.ErrNotFound
	}

	return nil
}
