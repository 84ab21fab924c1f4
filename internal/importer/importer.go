// Package importer turns uploaded bank statements into ledger transactions.
package importer

import (
	"io"

	"github.com/rbatista/grana/internal/ledger"
)

// Bank identifies which statement layout family to parse with.
type Bank string

const (
	BankNubank  Bank = "nubank"
	BankGeneric Bank = "generico"
)

type Parser interface {
	Parse(r io.Reader) ([]ledger.TransactionParams, error)
}
