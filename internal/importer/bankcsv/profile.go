package bankcsv

// amountMode selects how a profile reads amounts from a row.
type amountMode int

const (
	// amountSingle reads one signed column ("Valor" holding "-10,00").
	amountSingle amountMode = iota
	// amountSplit reads separate debit and credit columns.
	amountSplit
)

// Profile describes one bank export layout. Detection matches a header row
// against the profile's required columns, so adding a bank format is adding
// a Profile.
type Profile struct {
	Name        string
	DateCol     string
	DescCol     string
	CategoryCol string // optional; empty when the bank exports no category
	AmountMode  amountMode
	AmountCol   string // amountSingle
	DebitCol    string // amountSplit
	CreditCol   string // amountSplit
	DateLayouts []string
	// DecimalComma marks Brazilian number formatting: "." groups thousands
	// and "," is the decimal mark.
	DecimalComma bool
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// NubankProfiles covers Nubank's account statement export: comma-separated,
// dot decimals, one signed value column.
var NubankProfiles = []Profile{
	{
		Name:        "nubank",
		DateCol:     "Data",
		DescCol:     "Descrição",
		AmountMode:  amountSingle,
		AmountCol:   "Valor",
		DateLayouts: []string{"02/01/2006", "2006-01-02"},
	},
}

// GenericProfiles covers the common Brazilian bank layouts: semicolon
// separated, comma decimals, either a signed value column or a debit/credit
// pair. More specific profiles come first.
var GenericProfiles = []Profile{
	{
		Name:         "debito-credito",
		DateCol:      "Data",
		DescCol:      "Histórico",
		AmountMode:   amountSplit,
		DebitCol:     "Débito",
		CreditCol:    "Crédito",
		DateLayouts:  []string{"02/01/2006"},
		DecimalComma: true,
	},
	{
		Name:         "valor-assinado",
		DateCol:      "Data",
		DescCol:      "Descrição",
		CategoryCol:  "Categoria",
		AmountMode:   amountSingle,
		AmountCol:    "Valor",
		DateLayouts:  []string{"02/01/2006"},
		DecimalComma: true,
	},
}
