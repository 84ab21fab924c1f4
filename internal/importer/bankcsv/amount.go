package bankcsv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a statement amount. With decimalComma set it reads
// Brazilian formatting ("1.234,56"); otherwise plain dot decimals. Currency
// prefixes like "R$" and stray spaces are tolerated.
func parseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)

	if decimalComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	return decimal.NewFromString(s)
}
