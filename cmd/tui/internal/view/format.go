package view

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with its currency code, two decimal places.
func FormatMoney(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", currency, amount.StringFixed(2))
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
