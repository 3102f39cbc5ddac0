package portfolio

import (
	"context"
	"fmt"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/operations"
	"investhistory/internal/domain/entity/portfolio"
)

type Repository interface {
	ListInstruments(ctx context.Context) ([]instruments.Instrument, error)
	ListOperations(ctx context.Context, filter operations.Filter) ([]operations.Operation, error)
}

// Service computes the portfolio view from the current store contents on
// every call. It never writes.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Portfolio(ctx context.Context) ([]portfolio.Position, error) {
	items, err := s.repo.ListInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	ops, err := s.repo.ListOperations(ctx, operations.Filter{Status: operations.StatusDone})
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	return Build(items, ops), nil
}
