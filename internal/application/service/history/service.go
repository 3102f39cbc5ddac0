package history

import (
	"context"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"
	interfaces "investhistory/internal/domain/interfaces"
)

type Repository interface {
	interfaces.InstrumentsRepository
	interfaces.OperationsRepository
	interfaces.CandlesRepository
}

// Service exposes the stored collections as they are.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListInstruments(ctx context.Context) ([]instruments.Instrument, error) {
	items, err := s.repo.ListInstruments(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []instruments.Instrument{}
	}
	return items, nil
}

func (s *Service) ListOperations(ctx context.Context, filter operations.Filter) ([]operations.Operation, error) {
	items, err := s.repo.ListOperations(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []operations.Operation{}
	}
	return items, nil
}

func (s *Service) ListCandles(ctx context.Context, filter marketdata.CandleFilter) ([]marketdata.Candle, error) {
	if filter.Interval != "" && !filter.Interval.IsValid() {
		return nil, ErrInvalidInterval
	}
	items, err := s.repo.ListCandles(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []marketdata.Candle{}
	}
	return items, nil
}
