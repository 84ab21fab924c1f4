package projection

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rbatista/grana/internal/ledger"
)

// ProjectedTransaction is a forecast occurrence with the account's running
// balance after it is applied.
type ProjectedTransaction struct {
	ledger.Transaction
	Balance decimal.Decimal
}

// ForecastDay summarizes one calendar day of the horizon: the day's projected
// occurrences and the end-of-day balance (carried forward on quiet days).
type ForecastDay struct {
	Date         time.Time
	Currency     string
	Balance      decimal.Decimal
	Transactions []ProjectedTransaction
}

// ForecastResult bundles the flat occurrence list and the day-indexed summary.
type ForecastResult struct {
	DailySummary []ForecastDay
	Transactions []ProjectedTransaction
}

// Forecast projects the account's balance day by day over the horizon
// [today, today+horizonDays-1] using its fixed item templates. Templates that
// started in the past are fast-forwarded to their first occurrence on or after
// today without emitting the skipped instances. The seed balance is the
// account's current balance at the reference date.
func Forecast(account ledger.Account, fixedItems []ledger.FixedItem, today time.Time, horizonDays int) ForecastResult {
	today = DateOf(today)

	if horizonDays <= 0 {
		return ForecastResult{}
	}

	horizonEnd := today.AddDate(0, 0, horizonDays-1)

	var projected []ProjectedTransaction

	for _, item := range fixedItems {
		if item.AccountID != account.ID {
			continue
		}

		exp := newExpansion(item, horizonEnd)

		for d, ok := exp.next(); ok; d, ok = exp.next() {
			if d.Before(today) {
				continue
			}

			projected = append(projected, ProjectedTransaction{
				Transaction: syntheticTransaction(item, d, item.Flow),
			})
		}
	}

	sort.Slice(projected, func(i, j int) bool {
		return projected[i].Date.Before(projected[j].Date)
	})

	balance := account.CurrentBalance

	for i := range projected {
		switch projected[i].Flow {
		case ledger.FlowIncome:
			balance = balance.Add(projected[i].Amount)
		case ledger.FlowExpense:
			balance = balance.Sub(projected[i].Amount)
		}

		projected[i].Balance = balance
	}

	days := make([]ForecastDay, 0, horizonDays)
	carry := account.CurrentBalance

	for i := 0; i < horizonDays; i++ {
		day := ForecastDay{
			Date:     today.AddDate(0, 0, i),
			Currency: account.Currency,
		}

		for _, tx := range projected {
			if tx.Date.Equal(day.Date) {
				day.Transactions = append(day.Transactions, tx)
			}
		}

		if n := len(day.Transactions); n > 0 {
			carry = day.Transactions[n-1].Balance
		}

		day.Balance = carry
		days = append(days, day)
	}

	return ForecastResult{DailySummary: days, Transactions: projected}
}
