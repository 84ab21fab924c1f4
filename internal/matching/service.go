// Package matching learns how raw bank statement descriptions map onto the
// ledger's vocabulary: a cleaned description, a category and a flow. Imports
// consult it so recurring merchants land in the same category every time.
package matching

import (
	"context"
	"errors"
	"strings"

	"github.com/rbatista/grana/internal/ledger"
)

// Suggestion is the learned interpretation of a raw description.
type Suggestion struct {
	Description string
	Category    string
	Flow        ledger.FlowType
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindRule(ctx context.Context, rawDescription string) (*Suggestion, error)
	CreateRule(ctx context.Context, rawPattern string, suggestion Suggestion) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest looks up the interpretation for a raw description. Returns nil when
// nothing learned so far applies.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (*Suggestion, error) {
	rawDescription = strings.TrimSpace(rawDescription)
	if rawDescription == "" {
		return nil, nil
	}

	return s.repo.FindRule(ctx, rawDescription)
}

// Learn remembers how descriptions containing rawPattern should be read.
func (s *Service) Learn(ctx context.Context, rawPattern string, suggestion Suggestion) error {
	rawPattern = strings.TrimSpace(rawPattern)
	if rawPattern == "" {
		return errors.New("pattern is required")
	}

	if suggestion.Flow != ledger.FlowIncome && suggestion.Flow != ledger.FlowExpense {
		return errors.New("flow must be income or expense")
	}

	return s.repo.CreateRule(ctx, rawPattern, suggestion)
}
