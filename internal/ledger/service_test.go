package ledger_test

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
)

func TestService_CreateAccount(t *testing.T) {
	type testCase struct {
		name      string
		params    ledger.AccountParams
		setupMock func(m *ledger.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: ledger.AccountParams{
				Name:           "Conta Principal",
				Currency:       "BRL",
				InitialBalance: decimal.NewFromInt(8500),
				BalanceDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				MinBalance:     decimal.NewFromInt(1000),
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, acc *ledger.Account) error {
						acc.ID = uuid.New()
						acc.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:    "MissingName",
			params:  ledger.AccountParams{Currency: "BRL"},
			wantErr: true,
		},
		{
			name:   "RepoError",
			params: ledger.AccountParams{Name: "Carteira", Currency: "BRL"},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := ledger.NewService(repo)
			got, err := svc.CreateAccount(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.True(t, got.CurrentBalance.Equal(tt.params.InitialBalance))
		})
	}
}

func TestService_CreateTransaction(t *testing.T) {
	accountID := uuid.New()

	type testCase struct {
		name      string
		params    ledger.TransactionParams
		setupMock func(m *ledger.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: ledger.TransactionParams{
				AccountID:   accountID,
				Flow:        ledger.FlowExpense,
				Amount:      decimal.NewFromFloat(35.50),
				Description: "Almoço",
				Category:    "Alimentação",
				Date:        time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
						tx.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "ZeroAmountRejected",
			params: ledger.TransactionParams{
				AccountID: accountID,
				Flow:      ledger.FlowIncome,
			},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name: "NegativeAmountRejected",
			params: ledger.TransactionParams{
				AccountID: accountID,
				Flow:      ledger.FlowExpense,
				Amount:    decimal.NewFromInt(-10),
			},
			wantErr: ledger.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := ledger.NewService(repo)
			got, err := svc.CreateTransaction(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_CreateTransfer(t *testing.T) {
	from := uuid.New()
	to := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		repo.EXPECT().
			CreateTransfer(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tr *ledger.Transfer) error {
				tr.ID = uuid.New()
				return nil
			})

		svc := ledger.NewService(repo)
		got, err := svc.CreateTransfer(context.Background(), ledger.TransferParams{
			FromAccountID: from,
			ToAccountID:   to,
			FromAmount:    decimal.NewFromInt(100),
			ToAmount:      decimal.NewFromInt(18),
			Date:          time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
	})

	t.Run("SameAccountRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := ledger.NewService(ledger.NewMockRepository(ctrl))
		_, err := svc.CreateTransfer(context.Background(), ledger.TransferParams{
			FromAccountID: from,
			ToAccountID:   from,
			FromAmount:    decimal.NewFromInt(100),
			ToAmount:      decimal.NewFromInt(100),
		})

		assert.Error(t, err)
	})

	t.Run("NonPositiveLegRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := ledger.NewService(ledger.NewMockRepository(ctrl))
		_, err := svc.CreateTransfer(context.Background(), ledger.TransferParams{
			FromAccountID: from,
			ToAccountID:   to,
			FromAmount:    decimal.NewFromInt(100),
		})

		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	})
}

func TestService_CreateFixedItem(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	badEnd := start.AddDate(0, -1, 0)

	t.Run("EndBeforeStartRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := ledger.NewService(ledger.NewMockRepository(ctrl))
		_, err := svc.CreateFixedItem(context.Background(), ledger.FixedItemParams{
			AccountID:  uuid.New(),
			Flow:       ledger.FlowExpense,
			Amount:     decimal.NewFromInt(2000),
			Recurrence: ledger.RecurrenceMonthly,
			StartDate:  start,
			EndDate:    &badEnd,
		})

		assert.Error(t, err)
	})

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		repo.EXPECT().
			CreateFixedItem(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, item *ledger.FixedItem) error {
				item.ID = uuid.New()
				return nil
			})

		svc := ledger.NewService(repo)
		got, err := svc.CreateFixedItem(context.Background(), ledger.FixedItemParams{
			AccountID:   uuid.New(),
			Flow:        ledger.FlowExpense,
			Description: "Aluguel",
			Amount:      decimal.NewFromInt(2000),
			Category:    "Moradia",
			Recurrence:  ledger.RecurrenceMonthly,
			StartDate:   start,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
	})
}

func TestService_CreateTransactions_ValidatesBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := ledger.NewService(ledger.NewMockRepository(ctrl))

	err := svc.CreateTransactions(context.Background(), []ledger.Transaction{
		{Description: "ok", Amount: decimal.NewFromInt(10)},
		{Description: "broken", Amount: decimal.Zero},
	})

	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}
