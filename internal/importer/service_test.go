package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rbatista/grana/internal/importer"
	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/matching"
)

const statement = `Data;Descrição;Categoria;Valor
10/02/2025;PAG*JoseSilva 99;;-80,00
15/02/2025;Salário;Renda;8.500,00
`

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accID := uuid.New()

	matcher := importer.NewMockMatcher(ctrl)
	matcher.EXPECT().
		Suggest(gomock.Any(), "PAG*JoseSilva 99").
		Return(&matching.Suggestion{
			Description: "Feira",
			Category:    "Alimentação",
			Flow:        ledger.FlowExpense,
		}, nil)
	matcher.EXPECT().Suggest(gomock.Any(), "Salário").Return(nil, nil)

	svc := importer.NewService(matcher)

	params, err := svc.Import(context.Background(), importer.BankGeneric, accID, strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, accID, params[0].AccountID)
	assert.Equal(t, "Feira", params[0].Description)
	assert.Equal(t, "Alimentação", params[0].Category)
	assert.Equal(t, ledger.FlowExpense, params[0].Flow)

	// No rule matched; the row keeps its own description and category.
	assert.Equal(t, "Salário", params[1].Description)
	assert.Equal(t, "Renda", params[1].Category)
}

func TestService_Import_NoMatcher(t *testing.T) {
	svc := importer.NewService(nil)

	params, err := svc.Import(context.Background(), importer.BankGeneric, uuid.New(), strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, "PAG*JoseSilva 99", params[0].Description)
}

func TestService_Import_UnknownBank(t *testing.T) {
	svc := importer.NewService(nil)

	_, err := svc.Import(context.Background(), "itau", uuid.New(), strings.NewReader(statement))
	assert.Error(t, err)
}
