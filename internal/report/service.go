// Package report assembles ledger snapshots and runs the projection engine
// over them: balance recomputes, chart series, forecasts and tithe delivery.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/projection"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTitheSettled        = errors.New("tithe already delivered for this month")
)

//go:generate mockgen -source=service.go -destination=ledger_mock.go -package=report
type LedgerStore interface {
	Snapshot(ctx context.Context) (ledger.Snapshot, error)
	UpdateBalances(ctx context.Context, accounts []ledger.Account) error
	CreateTransactions(ctx context.Context, txs []ledger.Transaction) error
	CreateTransaction(ctx context.Context, params ledger.TransactionParams) (*ledger.Transaction, error)
}

type Service struct {
	store  LedgerStore
	policy projection.Policy
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces the reference clock. The engine itself never reads the
// wall clock; this is the single place "now" enters the system.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store LedgerStore, policy projection.Policy, opts ...Option) *Service {
	s := &Service{store: store, policy: policy, now: time.Now}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Balances recomputes every account's current balance from the full ledger,
// persists the result and returns it.
func (s *Service) Balances(ctx context.Context) ([]ledger.Account, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	accounts := projection.ComputeBalances(snap.Accounts, snap.Income, snap.Expenses, snap.Transfers)

	if err := s.store.UpdateBalances(ctx, accounts); err != nil {
		return nil, fmt.Errorf("persisting balances: %w", err)
	}

	return accounts, nil
}

// MaterializeCurrentPeriod turns the current period's fixed expense
// occurrences into real ledger transactions, skipping any already
// materialized, then refreshes balances. Returns the new transactions.
func (s *Service) MaterializeCurrentPeriod(ctx context.Context) ([]ledger.Transaction, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	period := s.policy.PeriodFor(s.now())
	window := projection.Window{Start: period.Start, End: period.End}

	created := projection.Generate(snap.FixedByFlow(ledger.FlowExpense), window, snap.Expenses, ledger.FlowExpense)
	if len(created) == 0 {
		return nil, nil
	}

	if err := s.store.CreateTransactions(ctx, created); err != nil {
		return nil, fmt.Errorf("materializing fixed expenses: %w", err)
	}

	if _, err := s.Balances(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

// Chart builds the year's period series for one currency.
func (s *Service) Chart(ctx context.Context, currency string, year int) ([]projection.Bucket, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	periods := s.policy.PeriodsForYear(year)

	return projection.BuildSeries(snap, currency, year, periods, s.policy.Label, s.now()), nil
}

// Forecast projects one account's balance over the horizon. The seed balance
// is recomputed from the ledger, not read from the stored account row.
func (s *Service) Forecast(ctx context.Context, accountID uuid.UUID, horizonDays int) (projection.ForecastResult, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return projection.ForecastResult{}, fmt.Errorf("loading snapshot: %w", err)
	}

	accounts := projection.ComputeBalances(snap.Accounts, snap.Income, snap.Expenses, snap.Transfers)

	for _, acc := range accounts {
		if acc.ID == accountID {
			return projection.Forecast(acc, snap.FixedByFlow(ledger.FlowExpense), s.now(), horizonDays), nil
		}
	}

	return projection.ForecastResult{}, ledger.ErrNotFound
}

// Tithe summarizes the month's tithe position per currency.
func (s *Service) Tithe(ctx context.Context, year int, month time.Month) ([]projection.TitheEntry, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	return projection.TitheSummary(snap, year, month), nil
}

// DeliverTithe settles the month's remaining tithe for the account's currency
// by recording an expense against the account, then refreshes balances.
func (s *Service) DeliverTithe(ctx context.Context, year int, month time.Month, accountID uuid.UUID) (*ledger.Transaction, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	account, ok := snap.Account(accountID)
	if !ok {
		return nil, ledger.ErrNotFound
	}

	entries := projection.TitheSummary(snap, year, month)

	entryIdx := -1

	for i, entry := range entries {
		if entry.Currency == account.Currency {
			entryIdx = i
			break
		}
	}

	if entryIdx < 0 || !entries[entryIdx].Remaining.IsPositive() {
		return nil, ErrTitheSettled
	}

	due := entries[entryIdx].Remaining

	live := projection.ComputeBalances(snap.Accounts, snap.Income, snap.Expenses, snap.Transfers)
	for _, acc := range live {
		if acc.ID == accountID && acc.CurrentBalance.LessThan(due) {
			return nil, ErrInsufficientBalance
		}
	}

	// Dated on today's day-of-month inside the delivery month, clamped to
	// the month's length.
	today := projection.DateOf(s.now())
	day := today.Day()

	if last := projection.Date(year, month+1, 0).Day(); day > last {
		day = last
	}

	tx, err := s.store.CreateTransaction(ctx, ledger.TransactionParams{
		AccountID:   accountID,
		Flow:        ledger.FlowExpense,
		Amount:      due,
		Description: fmt.Sprintf("Dízimo %s/%d", month, year),
		Category:    ledger.CategoryTithe,
		Date:        projection.Date(year, month, day),
	})
	if err != nil {
		return nil, fmt.Errorf("recording tithe: %w", err)
	}

	if _, err := s.Balances(ctx); err != nil {
		return nil, err
	}

	return tx, nil
}
