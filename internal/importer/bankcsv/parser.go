// Package bankcsv parses bank statement CSV exports into transaction params.
// Layouts are profile-driven: the parser looks for a header row matching one
// of its profiles, then reads the data rows below it, skipping preamble and
// footer lines the banks like to include.
package bankcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/rbatista/grana/internal/encoding"
	"github.com/rbatista/grana/internal/ledger"
)

// Parser reads one bank's CSV exports. The caller assigns the account after
// parsing; rows carry no account information.
type Parser struct {
	separator rune
	profiles  []Profile
}

// NewNubank parses Nubank account statement exports.
func NewNubank() *Parser {
	return &Parser{separator: ',', profiles: NubankProfiles}
}

// NewGeneric parses the common semicolon-separated Brazilian bank layouts.
func NewGeneric() *Parser {
	return &Parser{separator: ';', profiles: GenericProfiles}
}

func (p *Parser) Parse(r io.Reader) ([]ledger.TransactionParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = p.separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	profile, cols, headerIdx := p.detect(rows)
	if profile == nil {
		return nil, fmt.Errorf("no known statement layout matched the file header")
	}

	return parseRows(profile, cols, rows[headerIdx+1:])
}

// colIndex maps header names to their position in the row.
type colIndex map[string]int

func (p *Parser) detect(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range p.profiles {
			if hasColumns(p.profiles[i], cols) {
				return &p.profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func hasColumns(p Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func parseRows(p *Profile, cols colIndex, rows [][]string) ([]ledger.TransactionParams, error) {
	var params []ledger.TransactionParams

	for _, row := range rows {
		date, ok := parseDate(cellValue(row, cols[p.DateCol]), p.DateLayouts)
		if !ok {
			// Footer or summary line.
			continue
		}

		desc := cellValue(row, cols[p.DescCol])
		if desc == "" {
			continue
		}

		amount, flow, ok := rowAmount(p, cols, row)
		if !ok {
			continue
		}

		category := ""
		if idx, ok := cols[p.CategoryCol]; ok && p.CategoryCol != "" {
			category = cellValue(row, idx)
		}

		params = append(params, ledger.TransactionParams{
			Flow:        flow,
			Amount:      amount,
			Description: desc,
			Category:    category,
			Date:        date,
		})
	}

	return params, nil
}

func parseDate(s string, layouts []string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, ledger.FlowType, bool) {
	switch p.AmountMode {
	case amountSingle:
		return signedAmount(cellValue(row, cols[p.AmountCol]), p.DecimalComma)
	case amountSplit:
		return splitAmount(
			cellValue(row, cols[p.DebitCol]),
			cellValue(row, cols[p.CreditCol]),
			p.DecimalComma,
		)
	}

	return decimal.Decimal{}, "", false
}

// signedAmount reads one signed column: negative values are expenses.
func signedAmount(s string, decimalComma bool) (decimal.Decimal, ledger.FlowType, bool) {
	if s == "" {
		return decimal.Decimal{}, "", false
	}

	d, err := parseAmount(s, decimalComma)
	if err != nil || d.IsZero() {
		return decimal.Decimal{}, "", false
	}

	if d.IsNegative() {
		return d.Neg(), ledger.FlowExpense, true
	}

	return d, ledger.FlowIncome, true
}

// splitAmount reads a debit/credit pair; whichever side is populated wins.
func splitAmount(debit, credit string, decimalComma bool) (decimal.Decimal, ledger.FlowType, bool) {
	if debit != "" {
		if d, err := parseAmount(debit, decimalComma); err == nil && !d.IsZero() {
			return d.Abs(), ledger.FlowExpense, true
		}
	}

	if credit != "" {
		if d, err := parseAmount(credit, decimalComma); err == nil && !d.IsZero() {
			return d.Abs(), ledger.FlowIncome, true
		}
	}

	return decimal.Decimal{}, "", false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
