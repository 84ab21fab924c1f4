package projection_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/projection"
)

func TestForecast_FastForwardsPastTemplates(t *testing.T) {
	today := projection.Date(2025, time.August, 20)

	acc := account("Conta", "BRL", 0, projection.Date(2025, time.January, 1))
	acc.CurrentBalance = decimal.NewFromInt(1000)

	daily := ledger.FixedItem{
		ID:          uuid.New(),
		AccountID:   acc.ID,
		Flow:        ledger.FlowExpense,
		Description: "Estacionamento",
		Amount:      decimal.NewFromInt(100),
		Category:    "Transporte",
		Recurrence:  ledger.RecurrenceDaily,
		StartDate:   today.AddDate(0, 0, -10),
	}

	got := projection.Forecast(acc, []ledger.FixedItem{daily}, today, 3)

	// Exactly today, today+1, today+2; the ten past occurrences are skipped
	// without being emitted.
	require.Len(t, got.Transactions, 3)
	require.Len(t, got.DailySummary, 3)

	wantBalances := []int64{900, 800, 700}

	for i, tx := range got.Transactions {
		assert.Equal(t, today.AddDate(0, 0, i), tx.Date)
		assert.True(t, tx.Balance.Equal(decimal.NewFromInt(wantBalances[i])), "day %d: got %s", i, tx.Balance)
	}

	for i, day := range got.DailySummary {
		assert.Equal(t, today.AddDate(0, 0, i), day.Date)
		assert.Equal(t, "BRL", day.Currency)
		assert.True(t, day.Balance.Equal(decimal.NewFromInt(wantBalances[i])))
		assert.Len(t, day.Transactions, 1)
	}
}

func TestForecast_QuietDaysCarryBalanceForward(t *testing.T) {
	today := projection.Date(2025, time.August, 20)

	acc := account("Conta", "BRL", 0, projection.Date(2025, time.January, 1))
	acc.CurrentBalance = decimal.NewFromInt(500)

	weekly := ledger.FixedItem{
		ID:         uuid.New(),
		AccountID:  acc.ID,
		Flow:       ledger.FlowExpense,
		Amount:     decimal.NewFromInt(50),
		Recurrence: ledger.RecurrenceWeekly,
		StartDate:  today,
	}

	got := projection.Forecast(acc, []ledger.FixedItem{weekly}, today, 10)

	require.Len(t, got.Transactions, 2) // today and today+7
	require.Len(t, got.DailySummary, 10)

	assert.True(t, got.DailySummary[0].Balance.Equal(decimal.NewFromInt(450)))

	// Days 1..6 have no occurrences and keep the previous balance.
	for i := 1; i < 7; i++ {
		assert.Empty(t, got.DailySummary[i].Transactions)
		assert.True(t, got.DailySummary[i].Balance.Equal(decimal.NewFromInt(450)))
	}

	assert.True(t, got.DailySummary[7].Balance.Equal(decimal.NewFromInt(400)))
	assert.True(t, got.DailySummary[9].Balance.Equal(decimal.NewFromInt(400)))
}

func TestForecast_RespectsEndDateAndAccountFilter(t *testing.T) {
	today := projection.Date(2025, time.August, 20)

	acc := account("Conta", "BRL", 0, projection.Date(2025, time.January, 1))
	acc.CurrentBalance = decimal.NewFromInt(100)

	end := today.AddDate(0, 0, 1)

	expiring := ledger.FixedItem{
		ID:         uuid.New(),
		AccountID:  acc.ID,
		Flow:       ledger.FlowExpense,
		Amount:     decimal.NewFromInt(10),
		Recurrence: ledger.RecurrenceDaily,
		StartDate:  today.AddDate(0, 0, -30),
		EndDate:    &end,
	}

	otherAccount := ledger.FixedItem{
		ID:         uuid.New(),
		AccountID:  uuid.New(),
		Flow:       ledger.FlowExpense,
		Amount:     decimal.NewFromInt(999),
		Recurrence: ledger.RecurrenceDaily,
		StartDate:  today,
	}

	got := projection.Forecast(acc, []ledger.FixedItem{expiring, otherAccount}, today, 7)

	require.Len(t, got.Transactions, 2) // today and the end date, nothing after
	assert.True(t, got.DailySummary[6].Balance.Equal(decimal.NewFromInt(80)))
}

func TestForecast_FixedIncomeAdds(t *testing.T) {
	today := projection.Date(2025, time.August, 20)

	acc := account("Conta", "BRL", 0, projection.Date(2025, time.January, 1))
	acc.CurrentBalance = decimal.NewFromInt(100)

	salary := ledger.FixedItem{
		ID:         uuid.New(),
		AccountID:  acc.ID,
		Flow:       ledger.FlowIncome,
		Amount:     decimal.NewFromInt(700),
		Recurrence: ledger.RecurrenceMonthly,
		StartDate:  projection.Date(2025, time.January, 25),
	}

	got := projection.Forecast(acc, []ledger.FixedItem{salary}, today, 10)

	require.Len(t, got.Transactions, 1)
	assert.Equal(t, projection.Date(2025, time.August, 25), got.Transactions[0].Date)
	assert.True(t, got.DailySummary[9].Balance.Equal(decimal.NewFromInt(800)))
}

func TestForecast_ZeroHorizon(t *testing.T) {
	acc := account("Conta", "BRL", 0, projection.Date(2025, time.January, 1))

	got := projection.Forecast(acc, nil, projection.Date(2025, time.August, 20), 0)

	assert.Empty(t, got.Transactions)
	assert.Empty(t, got.DailySummary)
}
