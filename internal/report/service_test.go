package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/projection"
	"github.com/rbatista/grana/internal/report"
)

var fixedNow = func() time.Time {
	return time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
}

func monthlyPolicy() projection.Policy {
	return projection.Policy{View: projection.ViewMonthly}
}

func newService(store report.LedgerStore) *report.Service {
	return report.NewService(store, monthlyPolicy(), report.WithClock(fixedNow))
}

func TestService_Balances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accID := uuid.New()
	snap := ledger.Snapshot{
		Accounts: []ledger.Account{{
			ID:             accID,
			Currency:       "BRL",
			InitialBalance: decimal.NewFromInt(1000),
			BalanceDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
		Income: []ledger.Transaction{{
			ID:        uuid.New(),
			AccountID: accID,
			Flow:      ledger.FlowIncome,
			Amount:    decimal.NewFromInt(500),
			Date:      time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		}},
	}

	store := report.NewMockLedgerStore(ctrl)
	store.EXPECT().Snapshot(gomock.Any()).Return(snap, nil)
	store.EXPECT().
		UpdateBalances(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, accounts []ledger.Account) error {
			require.Len(t, accounts, 1)
			assert.True(t, accounts[0].CurrentBalance.Equal(decimal.NewFromInt(1500)))
			return nil
		})

	got, err := newService(store).Balances(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CurrentBalance.Equal(decimal.NewFromInt(1500)))
}

func TestService_Balances_SnapshotError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := report.NewMockLedgerStore(ctrl)
	store.EXPECT().Snapshot(gomock.Any()).Return(ledger.Snapshot{}, errors.New("db down"))

	got, err := newService(store).Balances(context.Background())
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestService_MaterializeCurrentPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accID := uuid.New()
	itemID := uuid.New()
	snap := ledger.Snapshot{
		Accounts: []ledger.Account{{ID: accID, Currency: "BRL", BalanceDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}},
		FixedItems: []ledger.FixedItem{{
			ID:          itemID,
			AccountID:   accID,
			Flow:        ledger.FlowExpense,
			Description: "Aluguel",
			Amount:      decimal.NewFromInt(1800),
			Recurrence:  ledger.RecurrenceMonthly,
			StartDate:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		}},
	}

	store := report.NewMockLedgerStore(ctrl)
	store.EXPECT().Snapshot(gomock.Any()).Return(snap, nil).Times(2)
	store.EXPECT().
		CreateTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txs []ledger.Transaction) error {
			require.Len(t, txs, 1)
			assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), txs[0].Date)
			assert.Equal(t, itemID, *txs[0].FixedItemID)
			return nil
		})
	store.EXPECT().UpdateBalances(gomock.Any(), gomock.Any()).Return(nil)

	created, err := newService(store).MaterializeCurrentPeriod(context.Background())
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.True(t, created[0].Amount.Equal(decimal.NewFromInt(1800)))
}

func TestService_MaterializeCurrentPeriod_NothingToDo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accID := uuid.New()
	itemID := uuid.New()
	snap := ledger.Snapshot{
		FixedItems: []ledger.FixedItem{{
			ID:         itemID,
			AccountID:  accID,
			Flow:       ledger.FlowExpense,
			Amount:     decimal.NewFromInt(1800),
			Recurrence: ledger.RecurrenceMonthly,
			StartDate:  time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		}},
		Expenses: []ledger.Transaction{{
			ID:          uuid.New(),
			AccountID:   accID,
			Flow:        ledger.FlowExpense,
			Amount:      decimal.NewFromInt(1800),
			Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			FixedItemID: &itemID,
		}},
	}

	store := report.NewMockLedgerStore(ctrl)
	store.EXPECT().Snapshot(gomock.Any()).Return(snap, nil)

	created, err := newService(store).MaterializeCurrentPeriod(context.Background())
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestService_Chart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accID := uuid.New()
	snap := ledger.Snapshot{
		Accounts: []ledger.Account{{
			ID:          accID,
			Currency:    "BRL",
			BalanceDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
		Income: []ledger.Transaction{{
			ID:        uuid.New(),
			AccountID: accID,
			Flow:      ledger.FlowIncome,
			Amount:    decimal.NewFromInt(7000),
			Date:      time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		}},
	}

	store := report.NewMockLedgerStore(ctrl)
	store.EXPECT().Snapshot(gomock.Any()).Return(snap, nil)

	buckets, err := newService(store).Chart(context.Background(), "BRL", 2025)
	require.NoError(t, err)
	require.Len(t, buckets, 12)

	assert.Equal(t, "February 2025", buckets[1].Label)
	assert.True(t, buckets[1].Income.Equal(decimal.NewFromInt(7000)))
}

func TestService_Forecast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accID := uuid.New()
	snap := ledger.Snapshot{
		Accounts: []ledger.Account{{
			ID:             accID,
			Currency:       "BRL",
			InitialBalance: decimal.NewFromInt(300),
			BalanceDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			// Stale stored balance; the forecast seed must be recomputed.
			CurrentBalance: decimal.NewFromInt(-999),
		}},
		Income: []ledger.Transaction{{
			ID:        uuid.New(),
			AccountID: accID,
			Flow:      ledger.FlowIncome,
			Amount:    decimal.NewFromInt(200),
			Date:      time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		}},
	}

	store := report.NewMockLedgerStore(ctrl)
	store.EXPECT().Snapshot(gomock.Any()).Return(snap, nil)

	result, err := newService(store).Forecast(context.Background(), accID, 3)
	require.NoError(t, err)
	require.Len(t, result.DailySummary, 3)
	assert.True(t, result.DailySummary[0].Balance.Equal(decimal.NewFromInt(500)))
}

func TestService_Forecast_OnlyFixedExpensesProjected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accID := uuid.New()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := ledger.Snapshot{
		Accounts: []ledger.Account{{
			ID:             accID,
			Currency:       "BRL",
			InitialBalance: decimal.NewFromInt(1000),
			BalanceDate:    start,
		}},
		FixedItems: []ledger.FixedItem{
			{
				ID:          uuid.New(),
				AccountID:   accID,
				Flow:        ledger.FlowIncome,
				Description: "Salário",
				Amount:      decimal.NewFromInt(5000),
				Recurrence:  ledger.RecurrenceDaily,
				StartDate:   start,
			},
			{
				ID:          uuid.New(),
				AccountID:   accID,
				Flow:        ledger.FlowExpense,
				Description: "Aluguel",
				Amount:      decimal.NewFromInt(100),
				Recurrence:  ledger.RecurrenceDaily,
				StartDate:   start,
			},
		},
	}

	store := report.NewMockLedgerStore(ctrl)
	store.EXPECT().Snapshot(gomock.Any()).Return(snap, nil)

	result, err := newService(store).Forecast(context.Background(), accID, 2)
	require.NoError(t, err)

	for _, tx := range result.Transactions {
		assert.Equal(t, ledger.FlowExpense, tx.Flow)
	}

	require.Len(t, result.DailySummary, 2)
	assert.True(t, result.DailySummary[0].Balance.Equal(decimal.NewFromInt(900)))
	assert.True(t, result.DailySummary[1].Balance.Equal(decimal.NewFromInt(800)))
}

func TestService_Forecast_UnknownAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := report.NewMockLedgerStore(ctrl)
	store.EXPECT().Snapshot(gomock.Any()).Return(ledger.Snapshot{}, nil)

	_, err := newService(store).Forecast(context.Background(), uuid.New(), 30)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestService_DeliverTithe(t *testing.T) {
	accID := uuid.New()

	baseSnapshot := func() ledger.Snapshot {
		return ledger.Snapshot{
			Accounts: []ledger.Account{{
				ID:             accID,
				Currency:       "BRL",
				InitialBalance: decimal.NewFromInt(5000),
				BalanceDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}},
			Income: []ledger.Transaction{{
				ID:        uuid.New(),
				AccountID: accID,
				Flow:      ledger.FlowIncome,
				Amount:    decimal.NewFromInt(7000),
				Date:      time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			}},
		}
	}

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := report.NewMockLedgerStore(ctrl)
		store.EXPECT().Snapshot(gomock.Any()).Return(baseSnapshot(), nil).Times(2)
		store.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params ledger.TransactionParams) (*ledger.Transaction, error) {
				assert.Equal(t, ledger.FlowExpense, params.Flow)
				assert.Equal(t, ledger.CategoryTithe, params.Category)
				assert.True(t, params.Amount.Equal(decimal.NewFromInt(700)))
				assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), params.Date)
				return &ledger.Transaction{ID: uuid.New(), Amount: params.Amount}, nil
			})
		store.EXPECT().UpdateBalances(gomock.Any(), gomock.Any()).Return(nil)

		tx, err := newService(store).DeliverTithe(context.Background(), 2025, time.March, accID)
		require.NoError(t, err)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(700)))
	})

	t.Run("AlreadySettled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		snap := baseSnapshot()
		snap.Expenses = []ledger.Transaction{{
			ID:        uuid.New(),
			AccountID: accID,
			Flow:      ledger.FlowExpense,
			Amount:    decimal.NewFromInt(700),
			Category:  ledger.CategoryTithe,
			Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		}}

		store := report.NewMockLedgerStore(ctrl)
		store.EXPECT().Snapshot(gomock.Any()).Return(snap, nil)

		_, err := newService(store).DeliverTithe(context.Background(), 2025, time.March, accID)
		assert.ErrorIs(t, err, report.ErrTitheSettled)
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		snap := baseSnapshot()
		snap.Accounts[0].InitialBalance = decimal.NewFromInt(-6500)

		store := report.NewMockLedgerStore(ctrl)
		store.EXPECT().Snapshot(gomock.Any()).Return(snap, nil)

		_, err := newService(store).DeliverTithe(context.Background(), 2025, time.March, accID)
		assert.ErrorIs(t, err, report.ErrInsufficientBalance)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := report.NewMockLedgerStore(ctrl)
		store.EXPECT().Snapshot(gomock.Any()).Return(baseSnapshot(), nil)

		_, err := newService(store).DeliverTithe(context.Background(), 2025, time.March, uuid.New())
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})
}

func TestService_Tithe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accID := uuid.New()
	snap := ledger.Snapshot{
		Accounts: []ledger.Account{{ID: accID, Currency: "EUR"}},
		Income: []ledger.Transaction{{
			ID:        uuid.New(),
			AccountID: accID,
			Flow:      ledger.FlowIncome,
			Amount:    decimal.NewFromInt(3000),
			Date:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		}},
	}

	store := report.NewMockLedgerStore(ctrl)
	store.EXPECT().Snapshot(gomock.Any()).Return(snap, nil)

	entries, err := newService(store).Tithe(context.Background(), 2025, time.March)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "EUR", entries[0].Currency)
	assert.True(t, entries[0].Due.Equal(decimal.NewFromInt(300)))
	assert.True(t, entries[0].Remaining.Equal(decimal.NewFromInt(300)))
}
