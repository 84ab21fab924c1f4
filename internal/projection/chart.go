package projection

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/ledger"
)

// Bucket is one charted period: aggregated flows plus the running balance at
// the period's end, for all accounts in one currency.
type Bucket struct {
	Label          string
	Period         Period
	Income         decimal.Decimal
	FixedExpenses  decimal.Decimal
	CommonExpenses decimal.Decimal
	Expenses       decimal.Decimal
	Balance        decimal.Decimal
	Projected      bool

	IncomeTransactions  []ledger.Transaction
	ExpenseTransactions []ledger.Transaction
}

// BuildSeries partitions a year into the given periods and aggregates real and
// projected flows for the accounts in one currency into a running balance
// series. The label callback tags each bucket; today decides which buckets are
// marked projected and where future fixed expenses start being synthesized.
func BuildSeries(snap ledger.Snapshot, currency string, year int, periods []Period, label func(Period) string, today time.Time) []Bucket {
	var accounts []ledger.Account

	for _, acc := range snap.Accounts {
		if acc.Currency == currency {
			accounts = append(accounts, acc)
		}
	}

	if len(accounts) == 0 {
		return nil
	}

	owned := make(map[uuid.UUID]struct{}, len(accounts))
	for _, acc := range accounts {
		owned[acc.ID] = struct{}{}
	}

	today = DateOf(today)
	running := balanceAtStartOfYear(snap, accounts, year)

	projected := generateFutureForYear(snap.FixedByFlow(ledger.FlowExpense), accounts, year, today, snap.Expenses)
	expenses := make([]ledger.Transaction, 0, len(snap.Expenses)+len(projected))
	expenses = append(expenses, snap.Expenses...)
	expenses = append(expenses, projected...)

	buckets := make([]Bucket, 0, len(periods))

	for _, period := range periods {
		b := Bucket{
			Label:     label(period),
			Period:    period,
			Projected: period.Start.After(today),
		}

		for _, tx := range snap.Income {
			if _, ok := owned[tx.AccountID]; ok && period.Contains(DateOf(tx.Date)) {
				b.IncomeTransactions = append(b.IncomeTransactions, tx)
				b.Income = b.Income.Add(tx.Amount)
			}
		}

		for _, tx := range expenses {
			if _, ok := owned[tx.AccountID]; !ok || !period.Contains(DateOf(tx.Date)) {
				continue
			}

			b.ExpenseTransactions = append(b.ExpenseTransactions, tx)

			if tx.FixedItemID != nil {
				b.FixedExpenses = b.FixedExpenses.Add(tx.Amount)
			} else {
				b.CommonExpenses = b.CommonExpenses.Add(tx.Amount)
			}
		}

		var transfersIn, transfersOut decimal.Decimal

		for _, tr := range snap.Transfers {
			if !period.Contains(DateOf(tr.Date)) {
				continue
			}

			if _, ok := owned[tr.ToAccountID]; ok {
				transfersIn = transfersIn.Add(tr.ToAmount)
			}

			if _, ok := owned[tr.FromAccountID]; ok {
				transfersOut = transfersOut.Add(tr.FromAmount)
			}
		}

		b.Expenses = b.FixedExpenses.Add(b.CommonExpenses)
		running = running.Add(b.Income).Add(transfersIn).Sub(b.Expenses).Sub(transfersOut)
		b.Balance = running

		buckets = append(buckets, b)
	}

	return buckets
}

// balanceAtStartOfYear computes the combined balance of the accounts at the
// instant just before the year begins: each account's initial balance plus its
// movements inside [balance date, Dec 31 of the previous year].
func balanceAtStartOfYear(snap ledger.Snapshot, accounts []ledger.Account, year int) decimal.Decimal {
	previousDay := Date(year, time.January, 1).AddDate(0, 0, -1)

	var sum decimal.Decimal

	for _, acc := range accounts {
		balance := acc.InitialBalance
		balanceDate := DateOf(acc.BalanceDate)

		if previousDay.Before(balanceDate) {
			sum = sum.Add(balance)
			continue
		}

		window := Window{Start: balanceDate, End: previousDay}

		for _, tx := range snap.Income {
			if tx.AccountID == acc.ID && window.Contains(DateOf(tx.Date)) {
				balance = balance.Add(tx.Amount)
			}
		}

		for _, tx := range snap.Expenses {
			if tx.AccountID == acc.ID && window.Contains(DateOf(tx.Date)) {
				balance = balance.Sub(tx.Amount)
			}
		}

		for _, tr := range snap.Transfers {
			if !window.Contains(DateOf(tr.Date)) {
				continue
			}

			if tr.ToAccountID == acc.ID {
				balance = balance.Add(tr.ToAmount)
			}

			if tr.FromAccountID == acc.ID {
				balance = balance.Sub(tr.FromAmount)
			}
		}

		sum = sum.Add(balance)
	}

	return sum
}
