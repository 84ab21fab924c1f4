// Package schedule manages appointments on a fixed grid of hourly slots.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rbatista/grana/internal/projection"
)

var (
	ErrNotFound    = errors.New("appointment not found")
	ErrSlotTaken   = errors.New("slot already booked")
	ErrInvalidSlot = errors.New("invalid slot")
)

// Slots is the bookable grid: hourly from 09:00 to 17:00, minus the
// 12:00 and 13:00 lunch break.
var Slots = []string{
	"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00",
}

func validSlot(slot string) bool {
	for _, s := range Slots {
		if s == slot {
			return true
		}
	}

	return false
}

// Appointment is a booking on one day's slot grid.
type Appointment struct {
	ID        uuid.UUID
	Title     string
	Date      time.Time // calendar date, midnight UTC
	Slot      string
	Notes     string
	CreatedAt time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=schedule
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	ListByDate(ctx context.Context, date time.Time) ([]Appointment, error)
	ListFrom(ctx context.Context, date time.Time) ([]Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Params struct {
	Title string
	Date  time.Time
	Slot  string
	Notes string
}

// Book creates an appointment, rejecting slots off the grid and slots already
// taken on that day.
func (s *Service) Book(ctx context.Context, params Params) (*Appointment, error) {
	if params.Title == "" {
		return nil, errors.New("title is required")
	}

	if !validSlot(params.Slot) {
		return nil, ErrInvalidSlot
	}

	date := projection.DateOf(params.Date)

	existing, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	for _, appt := range existing {
		if appt.Slot == params.Slot {
			return nil, ErrSlotTaken
		}
	}

	appt := &Appointment{
		Title: params.Title,
		Date:  date,
		Slot:  params.Slot,
		Notes: params.Notes,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("booking appointment: %w", err)
	}

	return appt, nil
}

// Day returns the day's bookings.
func (s *Service) Day(ctx context.Context, date time.Time) ([]Appointment, error) {
	return s.repo.ListByDate(ctx, projection.DateOf(date))
}

// Upcoming returns bookings on or after the given date.
func (s *Service) Upcoming(ctx context.Context, from time.Time) ([]Appointment, error) {
	return s.repo.ListFrom(ctx, projection.DateOf(from))
}

// FreeSlots returns the grid slots still open on the given day, in grid order.
func (s *Service) FreeSlots(ctx context.Context, date time.Time) ([]string, error) {
	booked, err := s.repo.ListByDate(ctx, projection.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	taken := make(map[string]bool, len(booked))
	for _, appt := range booked {
		taken[appt.Slot] = true
	}

	var free []string

	for _, slot := range Slots {
		if !taken[slot] {
			free = append(free, slot)
		}
	}

	return free, nil
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
