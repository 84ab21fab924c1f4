package bankcsv_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbatista/grana/internal/importer/bankcsv"
	"github.com/rbatista/grana/internal/ledger"
)

func TestParse_Nubank(t *testing.T) {
	input := strings.Join([]string{
		"Data,Valor,Identificador,Descrição",
		"05/03/2025,-45.90,abc-123,Compra no débito - iFood",
		"07/03/2025,5000.00,def-456,Transferência recebida",
		"",
	}, "\n")

	params, err := bankcsv.NewNubank().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, ledger.FlowExpense, params[0].Flow)
	assert.True(t, params[0].Amount.Equal(decimal.RequireFromString("45.90")))
	assert.Equal(t, "Compra no débito - iFood", params[0].Description)
	assert.Equal(t, "05/03/2025", params[0].Date.Format("02/01/2006"))

	assert.Equal(t, ledger.FlowIncome, params[1].Flow)
	assert.True(t, params[1].Amount.Equal(decimal.RequireFromString("5000")))
}

func TestParse_GenericSignedValue(t *testing.T) {
	// Preamble and footer lines around the real table, Brazilian decimals.
	input := strings.Join([]string{
		"Extrato Conta Corrente",
		"Período;01/02/2025 a 28/02/2025",
		"",
		"Data;Descrição;Categoria;Valor",
		"10/02/2025;Supermercado Pão de Açúcar;Alimentação;-1.234,56",
		"15/02/2025;Salário;Renda;8.500,00",
		"Saldo final;;;7.265,44",
	}, "\n")

	params, err := bankcsv.NewGeneric().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, ledger.FlowExpense, params[0].Flow)
	assert.True(t, params[0].Amount.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "Alimentação", params[0].Category)

	assert.Equal(t, ledger.FlowIncome, params[1].Flow)
	assert.True(t, params[1].Amount.Equal(decimal.RequireFromString("8500")))
}

func TestParse_GenericDebitCredit(t *testing.T) {
	input := strings.Join([]string{
		"Data;Histórico;Débito;Crédito",
		"03/04/2025;Pagamento boleto;250,00;",
		"08/04/2025;TED recebida;;1.000,00",
		"09/04/2025;Linha vazia;;",
	}, "\n")

	params, err := bankcsv.NewGeneric().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, ledger.FlowExpense, params[0].Flow)
	assert.True(t, params[0].Amount.Equal(decimal.RequireFromString("250")))

	assert.Equal(t, ledger.FlowIncome, params[1].Flow)
	assert.True(t, params[1].Amount.Equal(decimal.RequireFromString("1000")))
}

func TestParse_Latin1Input(t *testing.T) {
	// "Data;Descrição;Categoria;Valor" header in Windows-1252.
	var b strings.Builder
	b.WriteString("Data;Descri")
	b.Write([]byte{0xE7, 0xE3})
	b.WriteString("o;Categoria;Valor\n")
	b.WriteString("10/02/2025;Caf")
	b.Write([]byte{0xE9})
	b.WriteString(";;-12,50\n")

	params, err := bankcsv.NewGeneric().Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Café", params[0].Description)
}

func TestParse_UnknownLayout(t *testing.T) {
	input := "foo;bar;baz\n1;2;3\n"

	_, err := bankcsv.NewGeneric().Parse(strings.NewReader(input))
	assert.Error(t, err)
}

func TestParse_ZeroAmountSkipped(t *testing.T) {
	input := strings.Join([]string{
		"Data;Descrição;Categoria;Valor",
		"10/02/2025;Estorno;;0,00",
		"11/02/2025;Compra;;-10,00",
	}, "\n")

	params, err := bankcsv.NewGeneric().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Compra", params[0].Description)
}
