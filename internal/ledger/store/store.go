package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rbatista/grana/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*ledger.Account, error) {
	var acc ledger.Account

	if err := s.Scan(
		&acc.ID, &acc.Name, &acc.Currency, &acc.InitialBalance, &acc.BalanceDate,
		&acc.MinBalance, &acc.CurrentBalance, &acc.CreatedAt, &acc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &acc, nil
}

const selectAccountColumns = `
	id, name, currency, initial_balance, balance_date, min_balance, current_balance, created_at, updated_at
`

func (s *Store) CreateAccount(ctx context.Context, acc *ledger.Account) error {
	query := `
		INSERT INTO accounts (name, currency, initial_balance, balance_date, min_balance, current_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		acc.Name,
		acc.Currency,
		acc.InitialBalance,
		acc.BalanceDate,
		acc.MinBalance,
		acc.CurrentBalance,
	).Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1`

	acc, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return acc, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, *acc)
	}

	return accounts, rows.Err()
}

func (s *Store) UpdateAccount(ctx context.Context, acc *ledger.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, currency = $2, initial_balance = $3, balance_date = $4, min_balance = $5, updated_at = NOW()
		WHERE id = $6
	`

	_, err := s.db.ExecContext(ctx, query,
		acc.Name, acc.Currency, acc.InitialBalance, acc.BalanceDate, acc.MinBalance, acc.ID,
	)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	return nil
}

// UpdateBalances writes engine-recomputed balances in one transaction so a
// reader never sees a half-updated set.
func (s *Store) UpdateBalances(ctx context.Context, accounts []ledger.Account) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning balance update: %w", err)
	}
	defer dbTx.Rollback()

	for _, acc := range accounts {
		if _, err := dbTx.ExecContext(ctx,
			`UPDATE accounts SET current_balance = $1, updated_at = NOW() WHERE id = $2`,
			acc.CurrentBalance, acc.ID,
		); err != nil {
			return fmt.Errorf("updating balance for %s: %w", acc.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing balance update: %w", err)
	}

	return nil
}

func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var (
		tx      ledger.Transaction
		flowStr string
	)

	if err := s.Scan(
		&tx.ID, &tx.AccountID, &flowStr, &tx.Amount, &tx.Description,
		&tx.Category, &tx.Date, &tx.FixedItemID, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Flow = ledger.FlowType(flowStr)

	return &tx, nil
}

const selectTransactionColumns = `
	id, account_id, flow, amount, description, category, date, fixed_item_id, created_at
`

func (s *Store) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, flow, amount, description, category, date, fixed_item_id, created_at)
		VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	// Engine-materialized occurrences arrive with a deterministic id;
	// ordinary transactions get one here.
	var id any
	if tx.ID != uuid.Nil {
		id = tx.ID
	}

	err := s.db.QueryRowContext(ctx, query,
		id, tx.AccountID, tx.Flow, tx.Amount, tx.Description, tx.Category, tx.Date, tx.FixedItemID,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateTransactions(ctx context.Context, txs []ledger.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch insert: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO transactions (id, account_id, flow, amount, description, category, date, fixed_item_id, created_at)
		VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO NOTHING
	`

	for _, tx := range txs {
		var id any
		if tx.ID != uuid.Nil {
			id = tx.ID
		}

		if _, err := dbTx.ExecContext(ctx, query,
			id, tx.AccountID, tx.Flow, tx.Amount, tx.Description, tx.Category, tx.Date, tx.FixedItemID,
		); err != nil {
			return fmt.Errorf("inserting transaction %q: %w", tx.Description, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing batch insert: %w", err)
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Flow != nil {
		query += fmt.Sprintf(" AND flow = $%d", argIdx)

		args = append(args, *filter.Flow)
		argIdx++
	}

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND account_id = $%d", argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, *tx)
	}

	return txs, rows.Err()
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func scanTransfer(s scanner) (*ledger.Transfer, error) {
	var tr ledger.Transfer

	if err := s.Scan(
		&tr.ID, &tr.FromAccountID, &tr.ToAccountID, &tr.FromAmount, &tr.ToAmount,
		&tr.Description, &tr.Date, &tr.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &tr, nil
}

func (s *Store) CreateTransfer(ctx context.Context, tr *ledger.Transfer) error {
	query := `
		INSERT INTO transfers (from_account_id, to_account_id, from_amount, to_amount, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tr.FromAccountID, tr.ToAccountID, tr.FromAmount, tr.ToAmount, tr.Description, tr.Date,
	).Scan(&tr.ID, &tr.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transfer: %w", err)
	}

	return nil
}

func (s *Store) ListTransfers(ctx context.Context) ([]ledger.Transfer, error) {
	query := `
		SELECT id, from_account_id, to_account_id, from_amount, to_amount, description, date, created_at
		FROM transfers
		ORDER BY date ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var transfers []ledger.Transfer

	for rows.Next() {
		tr, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}

		transfers = append(transfers, *tr)
	}

	return transfers, rows.Err()
}

func (s *Store) DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transfers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting transfer: %w", err)
	}

	return nil
}

func scanFixedItem(s scanner) (*ledger.FixedItem, error) {
	var (
		item    ledger.FixedItem
		flowStr string
		recStr  string
	)

	if err := s.Scan(
		&item.ID, &item.AccountID, &flowStr, &item.Description, &item.Amount,
		&item.Category, &recStr, &item.StartDate, &item.EndDate, &item.CreatedAt,
	); err != nil {
		return nil, err
	}

	item.Flow = ledger.FlowType(flowStr)
	item.Recurrence = ledger.Recurrence(recStr)

	return &item, nil
}

const selectFixedItemColumns = `
	id, account_id, flow, description, amount, category, recurrence, start_date, end_date, created_at
`

func (s *Store) CreateFixedItem(ctx context.Context, item *ledger.FixedItem) error {
	query := `
		INSERT INTO fixed_items (account_id, flow, description, amount, category, recurrence, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		item.AccountID, item.Flow, item.Description, item.Amount, item.Category,
		item.Recurrence, item.StartDate, item.EndDate,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating fixed item: %w", err)
	}

	return nil
}

func (s *Store) ListFixedItems(ctx context.Context) ([]ledger.FixedItem, error) {
	query := `SELECT ` + selectFixedItemColumns + ` FROM fixed_items ORDER BY start_date ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing fixed items: %w", err)
	}
	defer rows.Close()

	var items []ledger.FixedItem

	for rows.Next() {
		item, err := scanFixedItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fixed item: %w", err)
		}

		items = append(items, *item)
	}

	return items, rows.Err()
}

func (s *Store) UpdateFixedItem(ctx context.Context, item *ledger.FixedItem) error {
	query := `
		UPDATE fixed_items
		SET account_id = $1, flow = $2, description = $3, amount = $4, category = $5, recurrence = $6, start_date = $7, end_date = $8
		WHERE id = $9
	`

	_, err := s.db.ExecContext(ctx, query,
		item.AccountID, item.Flow, item.Description, item.Amount, item.Category,
		item.Recurrence, item.StartDate, item.EndDate, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating fixed item: %w", err)
	}

	return nil
}

func (s *Store) DeleteFixedItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fixed_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting fixed item: %w", err)
	}

	return nil
}

// Snapshot loads everything the projection engine computes over.
func (s *Store) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	var (
		snap ledger.Snapshot
		err  error
	)

	if snap.Accounts, err = s.ListAccounts(ctx); err != nil {
		return ledger.Snapshot{}, err
	}

	income := ledger.FlowIncome
	if snap.Income, err = s.ListTransactions(ctx, ledger.TransactionFilter{Flow: &income}); err != nil {
		return ledger.Snapshot{}, err
	}

	expense := ledger.FlowExpense
	if snap.Expenses, err = s.ListTransactions(ctx, ledger.TransactionFilter{Flow: &expense}); err != nil {
		return ledger.Snapshot{}, err
	}

	if snap.Transfers, err = s.ListTransfers(ctx); err != nil {
		return ledger.Snapshot{}, err
	}

	if snap.FixedItems, err = s.ListFixedItems(ctx); err != nil {
		return ledger.Snapshot{}, err
	}

	return snap, nil
}
