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

func fixedItem(rec ledger.Recurrence, start time.Time, end *time.Time) ledger.FixedItem {
	return ledger.FixedItem{
		ID:          uuid.New(),
		AccountID:   uuid.New(),
		Flow:        ledger.FlowExpense,
		Description: "Aluguel",
		Amount:      decimal.NewFromInt(2000),
		Category:    "Moradia",
		Recurrence:  rec,
		StartDate:   start,
		EndDate:     end,
	}
}

func TestNext(t *testing.T) {
	type testCase struct {
		name string
		rec  ledger.Recurrence
		date time.Time
		want time.Time
	}

	tests := []testCase{
		{
			name: "Daily",
			rec:  ledger.RecurrenceDaily,
			date: projection.Date(2025, time.March, 14),
			want: projection.Date(2025, time.March, 15),
		},
		{
			name: "Weekly",
			rec:  ledger.RecurrenceWeekly,
			date: projection.Date(2025, time.March, 14),
			want: projection.Date(2025, time.March, 21),
		},
		{
			name: "Biweekly",
			rec:  ledger.RecurrenceBiweekly,
			date: projection.Date(2025, time.March, 14),
			want: projection.Date(2025, time.March, 28),
		},
		{
			name: "MonthlyPreservesDay",
			rec:  ledger.RecurrenceMonthly,
			date: projection.Date(2025, time.March, 14),
			want: projection.Date(2025, time.April, 14),
		},
		{
			name: "MonthlyClampsToShorterMonth",
			rec:  ledger.RecurrenceMonthly,
			date: projection.Date(2024, time.January, 31),
			want: projection.Date(2024, time.February, 29),
		},
		{
			name: "BimonthlyAcrossYearEnd",
			rec:  ledger.RecurrenceBimonthly,
			date: projection.Date(2025, time.December, 10),
			want: projection.Date(2026, time.February, 10),
		},
		{
			name: "Quarterly",
			rec:  ledger.RecurrenceQuarterly,
			date: projection.Date(2025, time.January, 31),
			want: projection.Date(2025, time.April, 30),
		},
		{
			name: "Semiannually",
			rec:  ledger.RecurrenceSemiannually,
			date: projection.Date(2025, time.August, 31),
			want: projection.Date(2026, time.February, 28),
		},
		{
			name: "Annually",
			rec:  ledger.RecurrenceAnnually,
			date: projection.Date(2024, time.February, 29),
			want: projection.Date(2025, time.February, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, projection.Next(tt.date, tt.rec))
		})
	}
}

func TestGenerate_MonthEndClamp(t *testing.T) {
	// Jan 31 monthly: the anchor day stays 31, each occurrence clamps to its
	// own month. February never eats the anchor for the months after it.
	item := fixedItem(ledger.RecurrenceMonthly, projection.Date(2024, time.January, 31), nil)

	window := projection.Window{
		Start: projection.Date(2024, time.January, 1),
		End:   projection.Date(2024, time.April, 30),
	}

	got := projection.Generate([]ledger.FixedItem{item}, window, nil, ledger.FlowExpense)
	require.Len(t, got, 4)

	want := []time.Time{
		projection.Date(2024, time.January, 31),
		projection.Date(2024, time.February, 29),
		projection.Date(2024, time.March, 31),
		projection.Date(2024, time.April, 30),
	}

	for i, tx := range got {
		assert.Equal(t, want[i], tx.Date)
	}
}

func TestGenerate_MonthlyFiveYearsTerminates(t *testing.T) {
	item := fixedItem(ledger.RecurrenceMonthly, projection.Date(2023, time.January, 31), nil)

	window := projection.Window{
		Start: projection.Date(2023, time.January, 1),
		End:   projection.Date(2027, time.December, 31),
	}

	got := projection.Generate([]ledger.FixedItem{item}, window, nil, ledger.FlowExpense)

	// 5 years, one occurrence per month, no duplicates.
	require.Len(t, got, 60)

	seen := make(map[time.Time]struct{}, len(got))

	for _, tx := range got {
		_, dup := seen[tx.Date]
		require.False(t, dup, "duplicate occurrence on %s", tx.Date)
		seen[tx.Date] = struct{}{}

		last := time.Date(tx.Date.Year(), tx.Date.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
		wantDay := 31
		if wantDay > last {
			wantDay = last
		}

		assert.Equal(t, wantDay, tx.Date.Day())
	}
}

func TestGenerate_UnknownRecurrenceDoesNotLoop(t *testing.T) {
	item := fixedItem(ledger.Recurrence("fortnightly-ish"), projection.Date(2024, time.June, 1), nil)

	window := projection.Window{
		Start: projection.Date(2024, time.January, 1),
		End:   projection.Date(2029, time.December, 31),
	}

	got := projection.Generate([]ledger.FixedItem{item}, window, nil, ledger.FlowExpense)

	// Only the start date is emitted; the far-future jump ends the series.
	require.Len(t, got, 1)
	assert.Equal(t, projection.Date(2024, time.June, 1), got[0].Date)
}

func TestGenerate_EndDateIsInclusive(t *testing.T) {
	end := projection.Date(2024, time.March, 1)
	item := fixedItem(ledger.RecurrenceMonthly, projection.Date(2024, time.January, 1), &end)

	window := projection.Window{
		Start: projection.Date(2024, time.January, 1),
		End:   projection.Date(2024, time.December, 31),
	}

	got := projection.Generate([]ledger.FixedItem{item}, window, nil, ledger.FlowExpense)
	require.Len(t, got, 3)
	assert.Equal(t, end, got[2].Date)
}
