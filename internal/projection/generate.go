package projection

import (
	"time"

	"github.com/google/uuid"

	"github.com/rbatista/grana/internal/ledger"
)

// syntheticNamespace is the UUIDv5 namespace for engine-generated occurrence
// ids. Real ledger ids are random v4 values, so a synthetic id can never
// collide with one.
var syntheticNamespace = uuid.MustParse("5a0e2c3f-9b1d-4c6a-8e4f-7d2b9c1a6e53")

// SyntheticID derives the deterministic identity of one occurrence of a fixed
// item. The same item and date always produce the same id.
func SyntheticID(itemID uuid.UUID, date time.Time) uuid.UUID {
	return uuid.NewSHA1(syntheticNamespace, []byte(itemID.String()+"/"+date.Format(time.DateOnly)))
}

// Window is an inclusive calendar date range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

type occurrenceKey struct {
	item uuid.UUID
	date string
}

// occurrenceSet indexes already-materialized occurrences by fixed item and
// calendar date.
func occurrenceSet(existing []ledger.Transaction) map[occurrenceKey]struct{} {
	seen := make(map[occurrenceKey]struct{}, len(existing))

	for _, tx := range existing {
		if tx.FixedItemID == nil {
			continue
		}

		seen[occurrenceKey{item: *tx.FixedItemID, date: tx.Date.Format(time.DateOnly)}] = struct{}{}
	}

	return seen
}

// Generate expands fixed items into synthetic transactions for every
// occurrence inside the window. Occurrences already present in existing
// (matched by fixed item id and calendar date) are skipped, so materializing
// the same window twice never double-books an expense. existing is only read.
func Generate(items []ledger.FixedItem, window Window, existing []ledger.Transaction, flow ledger.FlowType) []ledger.Transaction {
	seen := occurrenceSet(existing)

	var out []ledger.Transaction

	for _, item := range items {
		exp := newExpansion(item, window.End)

		for d, ok := exp.next(); ok; d, ok = exp.next() {
			if d.Before(window.Start) {
				continue
			}

			if _, dup := seen[occurrenceKey{item: item.ID, date: d.Format(time.DateOnly)}]; dup {
				continue
			}

			out = append(out, syntheticTransaction(item, d, flow))
		}
	}

	return out
}

// generateFutureForYear is the charting variant of Generate: it considers only
// fixed items owned by the given accounts and emits occurrences strictly after
// today, through the end of the requested year. The past is never re-projected.
func generateFutureForYear(items []ledger.FixedItem, accounts []ledger.Account, year int, today time.Time, existing []ledger.Transaction) []ledger.Transaction {
	owned := make(map[uuid.UUID]struct{}, len(accounts))
	for _, acc := range accounts {
		owned[acc.ID] = struct{}{}
	}

	seen := occurrenceSet(existing)
	today = DateOf(today)
	yearEnd := Date(year, time.December, 31)

	var out []ledger.Transaction

	for _, item := range items {
		if _, ok := owned[item.AccountID]; !ok {
			continue
		}

		exp := newExpansion(item, yearEnd)

		for d, ok := exp.next(); ok; d, ok = exp.next() {
			if d.Year() != year || !d.After(today) {
				continue
			}

			if _, dup := seen[occurrenceKey{item: item.ID, date: d.Format(time.DateOnly)}]; dup {
				continue
			}

			out = append(out, syntheticTransaction(item, d, item.Flow))
		}
	}

	return out
}

func syntheticTransaction(item ledger.FixedItem, date time.Time, flow ledger.FlowType) ledger.Transaction {
	itemID := item.ID

	return ledger.Transaction{
		ID:          SyntheticID(itemID, date),
		AccountID:   item.AccountID,
		Flow:        flow,
		Amount:      item.Amount,
		Description: item.Description,
		Category:    item.Category,
		Date:        date,
		FixedItemID: &itemID,
		Projected:   true,
	}
}
