package projection

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/ledger"
)

// titheRate is the fixed tithe fraction of gross income.
var titheRate = decimal.NewFromInt(1).Div(decimal.NewFromInt(10))

// TitheEntry is the tithe position for one currency in one month.
type TitheEntry struct {
	Currency  string
	Income    decimal.Decimal
	Due       decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal // Due - Paid, floored at zero
}

// TitheSummary computes the per-currency tithe position for a month: total
// income, 10% due, and what was already delivered (expenses in the tithe
// category that month). Currencies without income in the month are omitted.
// Transactions referencing unknown accounts carry no currency and are skipped.
func TitheSummary(snap ledger.Snapshot, year int, month time.Month) []TitheEntry {
	income := make(map[string]decimal.Decimal)
	paid := make(map[string]decimal.Decimal)

	inMonth := func(d time.Time) bool {
		d = DateOf(d)
		return d.Year() == year && d.Month() == month
	}

	for _, tx := range snap.Income {
		acc, ok := snap.Account(tx.AccountID)
		if !ok || !inMonth(tx.Date) {
			continue
		}

		income[acc.Currency] = income[acc.Currency].Add(tx.Amount)
	}

	for _, tx := range snap.Expenses {
		if tx.Category != ledger.CategoryTithe {
			continue
		}

		acc, ok := snap.Account(tx.AccountID)
		if !ok || !inMonth(tx.Date) {
			continue
		}

		paid[acc.Currency] = paid[acc.Currency].Add(tx.Amount)
	}

	var entries []TitheEntry

	for currency, total := range income {
		if !total.IsPositive() {
			continue
		}

		due := total.Mul(titheRate)
		delivered := paid[currency]
		remaining := due.Sub(delivered)

		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		entries = append(entries, TitheEntry{
			Currency:  currency,
			Income:    total,
			Due:       due,
			Paid:      delivered,
			Remaining: remaining,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Currency < entries[j].Currency
	})

	return entries
}
