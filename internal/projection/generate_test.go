package projection_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/projection"
)

func TestGenerate_WindowBounds(t *testing.T) {
	item := fixedItem(ledger.RecurrenceWeekly, projection.Date(2025, time.January, 6), nil)

	window := projection.Window{
		Start: projection.Date(2025, time.February, 1),
		End:   projection.Date(2025, time.February, 28),
	}

	got := projection.Generate([]ledger.FixedItem{item}, window, nil, ledger.FlowExpense)
	require.NotEmpty(t, got)

	for _, tx := range got {
		assert.True(t, window.Contains(tx.Date), "occurrence %s outside window", tx.Date)
		assert.True(t, tx.Projected)
		assert.Equal(t, ledger.FlowExpense, tx.Flow)

		require.NotNil(t, tx.FixedItemID)
		assert.Equal(t, item.ID, *tx.FixedItemID)
		assert.Equal(t, item.Amount, tx.Amount)
		assert.Equal(t, item.Category, tx.Category)
		assert.Equal(t, item.AccountID, tx.AccountID)
	}
}

func TestGenerate_DedupIsIdempotent(t *testing.T) {
	items := []ledger.FixedItem{
		fixedItem(ledger.RecurrenceMonthly, projection.Date(2025, time.January, 10), nil),
		fixedItem(ledger.RecurrenceBiweekly, projection.Date(2025, time.January, 3), nil),
	}

	window := projection.Window{
		Start: projection.Date(2025, time.January, 1),
		End:   projection.Date(2025, time.June, 30),
	}

	first := projection.Generate(items, window, nil, ledger.FlowExpense)
	require.NotEmpty(t, first)

	// Feeding the first run's output back as the existing ledger must yield
	// nothing for the same window.
	second := projection.Generate(items, window, first, ledger.FlowExpense)
	assert.Empty(t, second)
}

func TestGenerate_DoesNotMutateExisting(t *testing.T) {
	item := fixedItem(ledger.RecurrenceMonthly, projection.Date(2025, time.January, 10), nil)

	existing := []ledger.Transaction{
		{ID: uuid.New(), AccountID: item.AccountID, Date: projection.Date(2025, time.January, 10), FixedItemID: &item.ID},
	}

	window := projection.Window{
		Start: projection.Date(2025, time.January, 1),
		End:   projection.Date(2025, time.March, 31),
	}

	got := projection.Generate([]ledger.FixedItem{item}, window, existing, ledger.FlowExpense)

	require.Len(t, got, 2) // January occurrence already materialized
	require.Len(t, existing, 1)

	for _, tx := range got {
		assert.NotEqual(t, projection.Date(2025, time.January, 10), tx.Date)
	}
}

func TestSyntheticID(t *testing.T) {
	itemID := uuid.New()
	date := projection.Date(2025, time.May, 7)

	a := projection.SyntheticID(itemID, date)
	b := projection.SyntheticID(itemID, date)

	// Deterministic given the same template and date.
	assert.Equal(t, a, b)

	// Distinct per date, per item, and from the template's own id.
	assert.NotEqual(t, a, projection.SyntheticID(itemID, date.AddDate(0, 0, 1)))
	assert.NotEqual(t, a, projection.SyntheticID(uuid.New(), date))
	assert.NotEqual(t, a, itemID)

	// Namespaced v5 uuids cannot collide with random v4 ledger ids.
	assert.Equal(t, uuid.Version(5), a.Version())
}
