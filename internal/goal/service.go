// Package goal manages savings goals and contributions toward them.
package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/projection"
)

var (
	ErrNotFound            = errors.New("goal not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// CategoryContribution labels the expense recorded for each contribution.
const CategoryContribution = "Metas de Poupança"

// SavingsGoal tracks progress toward a savings target. CurrentAmount only
// moves through Contribute; it is not derived from the ledger.
type SavingsGoal struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	CreatedAt     time.Time
}

// Progress returns how far along the goal is, in percent, capped at 100.
// A non-positive target reads as zero progress.
func (g SavingsGoal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}

	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))

	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		return hundred
	}

	return pct
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	Create(ctx context.Context, goal *SavingsGoal) error
	Get(ctx context.Context, id uuid.UUID) (*SavingsGoal, error)
	List(ctx context.Context) ([]SavingsGoal, error)
	Update(ctx context.Context, goal *SavingsGoal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Ledger is the slice of the ledger service contributions need: a snapshot to
// check the funding account's balance and a way to record the expense.
type Ledger interface {
	Snapshot(ctx context.Context) (ledger.Snapshot, error)
	CreateTransaction(ctx context.Context, params ledger.TransactionParams) (*ledger.Transaction, error)
}

type Service struct {
	repo   Repository
	ledger Ledger
	now    func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, ledger Ledger, opts ...Option) *Service {
	s := &Service{repo: repo, ledger: ledger, now: time.Now}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type Params struct {
	AccountID    uuid.UUID
	Name         string
	TargetAmount decimal.Decimal
	Deadline     *time.Time
}

func (s *Service) Create(ctx context.Context, params Params) (*SavingsGoal, error) {
	if params.Name == "" {
		return nil, errors.New("name is required")
	}

	if params.AccountID == uuid.Nil {
		return nil, errors.New("account_id is required")
	}

	if !params.TargetAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	g := &SavingsGoal{
		AccountID:    params.AccountID,
		Name:         params.Name,
		TargetAmount: params.TargetAmount,
		Deadline:     params.Deadline,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}

	return g, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*SavingsGoal, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]SavingsGoal, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (*SavingsGoal, error) {
	if !params.TargetAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	g.Name = params.Name
	g.TargetAmount = params.TargetAmount
	g.Deadline = params.Deadline

	if params.AccountID != uuid.Nil {
		g.AccountID = params.AccountID
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("updating goal: %w", err)
	}

	return g, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Contribute moves money from an account into the goal: it records an expense
// on the account dated today and bumps the goal's current amount. Fails when
// the account's recomputed balance cannot cover the contribution.
func (s *Service) Contribute(ctx context.Context, goalID, accountID uuid.UUID, amount decimal.Decimal) (*SavingsGoal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	g, err := s.repo.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}

	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if _, ok := snap.Account(accountID); !ok {
		return nil, ledger.ErrNotFound
	}

	live := projection.ComputeBalances(snap.Accounts, snap.Income, snap.Expenses, snap.Transfers)
	for _, acc := range live {
		if acc.ID == accountID && acc.CurrentBalance.LessThan(amount) {
			return nil, ErrInsufficientBalance
		}
	}

	_, err = s.ledger.CreateTransaction(ctx, ledger.TransactionParams{
		AccountID:   accountID,
		Flow:        ledger.FlowExpense,
		Amount:      amount,
		Description: fmt.Sprintf("Contribuição para meta %s", g.Name),
		Category:    CategoryContribution,
		Date:        projection.DateOf(s.now()),
	})
	if err != nil {
		return nil, fmt.Errorf("recording contribution: %w", err)
	}

	g.CurrentAmount = g.CurrentAmount.Add(amount)

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("updating goal: %w", err)
	}

	return g, nil
}
