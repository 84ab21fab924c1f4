package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/rbatista/grana/internal/importer/bankcsv"
	"github.com/rbatista/grana/internal/ledger"
	"github.com/rbatista/grana/internal/matching"
)

// Matcher suggests how a raw statement description should be categorized.
//
//go:generate mockgen -source=service.go -destination=matcher_mock.go -package=importer
type Matcher interface {
	Suggest(ctx context.Context, rawDescription string) (*matching.Suggestion, error)
}

type Service struct {
	parsers map[Bank]Parser
	matcher Matcher
}

// NewService builds the importer with the supported bank parsers. matcher may
// be nil, in which case rows keep their raw descriptions.
func NewService(matcher Matcher) *Service {
	return &Service{
		parsers: map[Bank]Parser{
			BankNubank:  bankcsv.NewNubank(),
			BankGeneric: bankcsv.NewGeneric(),
		},
		matcher: matcher,
	}
}

// Import parses the statement and prepares transaction params for the given
// account. Learned category rules are applied per row; the flow derived from
// the statement's sign always wins over the rule's flow.
func (s *Service) Import(ctx context.Context, bank Bank, accountID uuid.UUID, r io.Reader) ([]ledger.TransactionParams, error) {
	parser, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	params, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s statement: %w", bank, err)
	}

	for i := range params {
		params[i].AccountID = accountID

		if s.matcher == nil {
			continue
		}

		sg, err := s.matcher.Suggest(ctx, params[i].Description)
		if err != nil {
			return nil, fmt.Errorf("suggesting category: %w", err)
		}

		if sg == nil {
			continue
		}

		if sg.Description != "" {
			params[i].Description = sg.Description
		}

		if params[i].Category == "" {
			params[i].Category = sg.Category
		}
	}

	return params, nil
}
