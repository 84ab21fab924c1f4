package goal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rbatista/grana/internal/goal"
	"github.com/rbatista/grana/internal/ledger"
)

var fixedNow = func() time.Time {
	return time.Date(2025, 6, 20, 14, 0, 0, 0, time.UTC)
}

func TestSavingsGoal_Progress(t *testing.T) {
	tests := []struct {
		name    string
		target  int64
		current int64
		want    string
	}{
		{"Halfway", 1000, 500, "50"},
		{"Complete", 1000, 1000, "100"},
		{"Overfunded", 1000, 1500, "100"},
		{"ZeroTarget", 0, 500, "0"},
		{"NegativeTarget", -100, 500, "0"},
		{"Empty", 1000, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := goal.SavingsGoal{
				TargetAmount:  decimal.NewFromInt(tt.target),
				CurrentAmount: decimal.NewFromInt(tt.current),
			}

			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, g.Progress().Equal(want), "got %s", g.Progress())
		})
	}
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := goal.NewMockRepository(ctrl)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *goal.SavingsGoal) error {
			g.ID = uuid.New()
			g.CreatedAt = time.Now()
			return nil
		})

	svc := goal.NewService(repo, goal.NewMockLedger(ctrl))

	accID := uuid.New()

	g, err := svc.Create(context.Background(), goal.Params{
		AccountID:    accID,
		Name:         "Viagem",
		TargetAmount: decimal.NewFromInt(12000),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, g.ID)
	assert.Equal(t, accID, g.AccountID)
}

func TestService_Create_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := goal.NewService(goal.NewMockRepository(ctrl), goal.NewMockLedger(ctrl))

	accID := uuid.New()

	_, err := svc.Create(context.Background(), goal.Params{AccountID: accID, TargetAmount: decimal.NewFromInt(100)})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), goal.Params{Name: "Reserva", TargetAmount: decimal.NewFromInt(100)})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), goal.Params{AccountID: accID, Name: "Reserva"})
	assert.ErrorIs(t, err, goal.ErrInvalidAmount)
}

func TestService_Contribute(t *testing.T) {
	goalID := uuid.New()
	accID := uuid.New()

	snapshot := ledger.Snapshot{
		Accounts: []ledger.Account{{
			ID:             accID,
			Currency:       "BRL",
			InitialBalance: decimal.NewFromInt(2000),
			BalanceDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
	}

	stored := func() *goal.SavingsGoal {
		return &goal.SavingsGoal{
			ID:            goalID,
			Name:          "Reserva de emergência",
			TargetAmount:  decimal.NewFromInt(10000),
			CurrentAmount: decimal.NewFromInt(1000),
		}
	}

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := goal.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), goalID).Return(stored(), nil)
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, g *goal.SavingsGoal) error {
				assert.True(t, g.CurrentAmount.Equal(decimal.NewFromInt(1500)))
				return nil
			})

		ldg := goal.NewMockLedger(ctrl)
		ldg.EXPECT().Snapshot(gomock.Any()).Return(snapshot, nil)
		ldg.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params ledger.TransactionParams) (*ledger.Transaction, error) {
				assert.Equal(t, ledger.FlowExpense, params.Flow)
				assert.Equal(t, goal.CategoryContribution, params.Category)
				assert.Equal(t, "Contribuição para meta Reserva de emergência", params.Description)
				assert.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), params.Date)
				return &ledger.Transaction{ID: uuid.New()}, nil
			})

		svc := goal.NewService(repo, ldg, goal.WithClock(fixedNow))

		g, err := svc.Contribute(context.Background(), goalID, accID, decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.True(t, g.CurrentAmount.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := goal.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), goalID).Return(stored(), nil)

		ldg := goal.NewMockLedger(ctrl)
		ldg.EXPECT().Snapshot(gomock.Any()).Return(snapshot, nil)

		svc := goal.NewService(repo, ldg, goal.WithClock(fixedNow))

		_, err := svc.Contribute(context.Background(), goalID, accID, decimal.NewFromInt(5000))
		assert.ErrorIs(t, err, goal.ErrInsufficientBalance)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := goal.NewService(goal.NewMockRepository(ctrl), goal.NewMockLedger(ctrl))

		_, err := svc.Contribute(context.Background(), goalID, accID, decimal.Zero)
		assert.ErrorIs(t, err, goal.ErrInvalidAmount)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := goal.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), goalID).Return(stored(), nil)

		ldg := goal.NewMockLedger(ctrl)
		ldg.EXPECT().Snapshot(gomock.Any()).Return(snapshot, nil)

		svc := goal.NewService(repo, ldg, goal.WithClock(fixedNow))

		_, err := svc.Contribute(context.Background(), goalID, uuid.New(), decimal.NewFromInt(100))
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	goalID := uuid.New()
	accID := uuid.New()

	repo := goal.NewMockRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), goalID).Return(&goal.SavingsGoal{
		ID:           goalID,
		AccountID:    accID,
		Name:         "Viagem",
		TargetAmount: decimal.NewFromInt(8000),
	}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	svc := goal.NewService(repo, goal.NewMockLedger(ctrl))

	g, err := svc.Update(context.Background(), goalID, goal.Params{
		Name:         "Viagem Europa",
		TargetAmount: decimal.NewFromInt(15000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Viagem Europa", g.Name)
	assert.True(t, g.TargetAmount.Equal(decimal.NewFromInt(15000)))
	// Omitting the account on update keeps the current owner.
	assert.Equal(t, accID, g.AccountID)
}
