package projection

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/ledger"
)

type movementKind int

const (
	movementIncome movementKind = iota
	movementExpense
	movementTransfer
)

// movement is the tagged union the balance replay walks: one variant per flow
// type, so a new flow type surfaces as a missing switch arm here instead of a
// silent no-op.
type movement struct {
	kind movementKind
	date time.Time

	// income / expense
	accountID uuid.UUID
	amount    decimal.Decimal

	// transfer
	fromID     uuid.UUID
	toID       uuid.UUID
	fromAmount decimal.Decimal
	toAmount   decimal.Decimal
}

// ComputeBalances replays the full ledger chronologically against each
// account's initial balance and returns fresh accounts with CurrentBalance
// recomputed. A movement only affects an account when its date is on or after
// that account's balance date; movements referencing unknown accounts are
// skipped. Inputs are never mutated.
func ComputeBalances(accounts []ledger.Account, income, expenses []ledger.Transaction, transfers []ledger.Transfer) []ledger.Account {
	if len(accounts) == 0 {
		return nil
	}

	out := make([]ledger.Account, len(accounts))
	index := make(map[uuid.UUID]*ledger.Account, len(accounts))

	for i, acc := range accounts {
		out[i] = acc
		out[i].CurrentBalance = acc.InitialBalance
		index[acc.ID] = &out[i]
	}

	movements := make([]movement, 0, len(income)+len(expenses)+len(transfers))

	for _, tx := range income {
		movements = append(movements, movement{kind: movementIncome, date: DateOf(tx.Date), accountID: tx.AccountID, amount: tx.Amount})
	}

	for _, tx := range expenses {
		movements = append(movements, movement{kind: movementExpense, date: DateOf(tx.Date), accountID: tx.AccountID, amount: tx.Amount})
	}

	for _, tr := range transfers {
		movements = append(movements, movement{
			kind:       movementTransfer,
			date:       DateOf(tr.Date),
			fromID:     tr.FromAccountID,
			toID:       tr.ToAccountID,
			fromAmount: tr.FromAmount,
			toAmount:   tr.ToAmount,
		})
	}

	sort.Slice(movements, func(i, j int) bool {
		return movements[i].date.Before(movements[j].date)
	})

	for _, m := range movements {
		switch m.kind {
		case movementIncome:
			if acc, ok := index[m.accountID]; ok && counts(m.date, acc) {
				acc.CurrentBalance = acc.CurrentBalance.Add(m.amount)
			}
		case movementExpense:
			if acc, ok := index[m.accountID]; ok && counts(m.date, acc) {
				acc.CurrentBalance = acc.CurrentBalance.Sub(m.amount)
			}
		case movementTransfer:
			// Each leg is gated by its own account's balance date.
			if from, ok := index[m.fromID]; ok && counts(m.date, from) {
				from.CurrentBalance = from.CurrentBalance.Sub(m.fromAmount)
			}

			if to, ok := index[m.toID]; ok && counts(m.date, to) {
				to.CurrentBalance = to.CurrentBalance.Add(m.toAmount)
			}
		}
	}

	return out
}

// counts reports whether a movement on date affects the account: the balance
// date boundary is inclusive.
func counts(date time.Time, acc *ledger.Account) bool {
	return !date.Before(DateOf(acc.BalanceDate))
}
