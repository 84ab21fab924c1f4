package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("amount must be positive")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateAccount(ctx context.Context, acc *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	UpdateAccount(ctx context.Context, acc *Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	UpdateBalances(ctx context.Context, accounts []Account) error

	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateTransactions(ctx context.Context, txs []Transaction) error
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	CreateTransfer(ctx context.Context, tr *Transfer) error
	ListTransfers(ctx context.Context) ([]Transfer, error)
	DeleteTransfer(ctx context.Context, id uuid.UUID) error

	CreateFixedItem(ctx context.Context, item *FixedItem) error
	ListFixedItems(ctx context.Context) ([]FixedItem, error)
	UpdateFixedItem(ctx context.Context, item *FixedItem) error
	DeleteFixedItem(ctx context.Context, id uuid.UUID) error

	Snapshot(ctx context.Context) (Snapshot, error)
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Flow      *FlowType
	AccountID *uuid.UUID
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type AccountParams struct {
	Name           string
	Currency       string
	InitialBalance decimal.Decimal
	BalanceDate    time.Time
	MinBalance     decimal.Decimal
}

func (s *Service) CreateAccount(ctx context.Context, params AccountParams) (*Account, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("account name is required")
	}

	acc := &Account{
		Name:           params.Name,
		Currency:       params.Currency,
		InitialBalance: params.InitialBalance,
		BalanceDate:    params.BalanceDate,
		MinBalance:     params.MinBalance,
		CurrentBalance: params.InitialBalance,
	}

	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) UpdateAccount(ctx context.Context, acc *Account) error {
	return s.repo.UpdateAccount(ctx, acc)
}

func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, id)
}

// UpdateBalances persists engine-recomputed current balances.
func (s *Service) UpdateBalances(ctx context.Context, accounts []Account) error {
	return s.repo.UpdateBalances(ctx, accounts)
}

type TransactionParams struct {
	AccountID   uuid.UUID
	Flow        FlowType
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        time.Time
	FixedItemID *uuid.UUID
}

func (s *Service) CreateTransaction(ctx context.Context, params TransactionParams) (*Transaction, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx := &Transaction{
		AccountID:   params.AccountID,
		Flow:        params.Flow,
		Amount:      params.Amount,
		Description: params.Description,
		Category:    params.Category,
		Date:        params.Date,
		FixedItemID: params.FixedItemID,
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// CreateTransactions persists a batch, typically engine-materialized fixed
// occurrences or an imported statement.
func (s *Service) CreateTransactions(ctx context.Context, txs []Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	for _, tx := range txs {
		if !tx.Amount.IsPositive() {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, tx.Description)
		}
	}

	return s.repo.CreateTransactions(ctx, txs)
}

func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

type TransferParams struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	FromAmount    decimal.Decimal
	ToAmount      decimal.Decimal
	Description   string
	Date          time.Time
}

func (s *Service) CreateTransfer(ctx context.Context, params TransferParams) (*Transfer, error) {
	if !params.FromAmount.IsPositive() || !params.ToAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if params.FromAccountID == params.ToAccountID {
		return nil, fmt.Errorf("transfer must reference two distinct accounts")
	}

	tr := &Transfer{
		FromAccountID: params.FromAccountID,
		ToAccountID:   params.ToAccountID,
		FromAmount:    params.FromAmount,
		ToAmount:      params.ToAmount,
		Description:   params.Description,
		Date:          params.Date,
	}

	if err := s.repo.CreateTransfer(ctx, tr); err != nil {
		return nil, err
	}

	return tr, nil
}

func (s *Service) ListTransfers(ctx context.Context) ([]Transfer, error) {
	return s.repo.ListTransfers(ctx)
}

func (s *Service) DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransfer(ctx, id)
}

type FixedItemParams struct {
	AccountID   uuid.UUID
	Flow        FlowType
	Description string
	Amount      decimal.Decimal
	Category    string
	Recurrence  Recurrence
	StartDate   time.Time
	EndDate     *time.Time
}

func (s *Service) CreateFixedItem(ctx context.Context, params FixedItemParams) (*FixedItem, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if params.EndDate != nil && params.EndDate.Before(params.StartDate) {
		return nil, fmt.Errorf("end date precedes start date")
	}

	item := &FixedItem{
		AccountID:   params.AccountID,
		Flow:        params.Flow,
		Description: params.Description,
		Amount:      params.Amount,
		Category:    params.Category,
		Recurrence:  params.Recurrence,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
	}

	if err := s.repo.CreateFixedItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) ListFixedItems(ctx context.Context) ([]FixedItem, error) {
	return s.repo.ListFixedItems(ctx)
}

func (s *Service) UpdateFixedItem(ctx context.Context, item *FixedItem) error {
	return s.repo.UpdateFixedItem(ctx, item)
}

func (s *Service) DeleteFixedItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteFixedItem(ctx, id)
}

// Snapshot loads the full data set for an engine recompute.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.repo.Snapshot(ctx)
}
