package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"
	interfaces "investhistory/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultStartYear         = 2012
	DefaultRequestsPerSecond = 1.0
)

var ErrUnresolvedInstrument = errors.New("unknown instrument")

// Config controls the history window and the provider request pacing.
type Config struct {
	StartYear         int
	RequestsPerSecond float64
	Intervals         []marketdata.CandleInterval
}

// Report summarises a finished import or link run.
type Report struct {
	Operations       int       `json:"operations"`
	Instruments      int       `json:"instruments"`
	Candles          int       `json:"candles"`
	LinkedOperations int64     `json:"linked_operations"`
	LinkedCandles    int64     `json:"linked_candles"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

// Pipeline imports the account history from the provider into the store and
// links operations and candles to their instruments afterwards. All provider
// calls are made one at a time through a single rate limiter.
type Pipeline struct {
	provider interfaces.MarketDataProvider
	store    interfaces.HistoryStore
	limiter  *rate.Limiter
	cfg      Config
	logger   *logrus.Entry
	now      func() time.Time
}

func NewPipeline(provider interfaces.MarketDataProvider, store interfaces.HistoryStore, cfg Config, logger *logrus.Logger) *Pipeline {
	if cfg.StartYear <= 0 {
		cfg.StartYear = DefaultStartYear
	}
	if len(cfg.Intervals) == 0 {
		cfg.Intervals = marketdata.HistoryIntervals
	}
	return &Pipeline{
		provider: provider,
		store:    store,
		limiter:  newLimiter(cfg.RequestsPerSecond),
		cfg:      cfg,
		logger:   logger.WithField("component", "ingest"),
		now:      time.Now,
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// Run executes a full import. Any error aborts the run; rows written before
// the failure stay in the store and are fixed up by the next run or by Link.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: p.now().UTC()}

	ops, err := p.fetchOperations(ctx, report.StartedAt)
	if err != nil {
		return nil, err
	}
	report.Operations = len(ops)

	resolved, err := p.resolveInstruments(ctx, ops)
	if err != nil {
		return nil, err
	}
	report.Instruments = len(resolved)

	if err := p.store.UpsertOperations(ctx, ops); err != nil {
		return nil, fmt.Errorf("save operations: %w", err)
	}
	p.logger.WithField("operations", len(ops)).Info("operations saved")

	links, err := p.store.UpsertInstruments(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("save instruments: %w", err)
	}
	p.logger.WithField("instruments", len(links)).Info("instruments saved")

	candles, err := p.fetchCandles(ctx, resolved, report.StartedAt)
	if err != nil {
		return nil, err
	}
	report.Candles = len(candles)

	if err := p.store.UpsertCandles(ctx, candles); err != nil {
		return nil, fmt.Errorf("save candles: %w", err)
	}
	p.logger.WithField("candles", len(candles)).Info("candles saved")

	if report.LinkedOperations, report.LinkedCandles, err = p.link(ctx, links); err != nil {
		return nil, err
	}

	report.FinishedAt = p.now().UTC()
	return report, nil
}

// Link repeats the back-reference pass for every instrument already stored.
func (p *Pipeline) Link(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: p.now().UTC()}

	stored, err := p.store.ListInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	links := make([]instruments.Link, 0, len(stored))
	for _, instrument := range stored {
		links = append(links, instruments.Link{Figi: instrument.Figi, ID: instrument.ID})
	}
	report.Instruments = len(links)

	if report.LinkedOperations, report.LinkedCandles, err = p.link(ctx, links); err != nil {
		return nil, err
	}

	report.FinishedAt = p.now().UTC()
	return report, nil
}

func (p *Pipeline) wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for provider rate limit: %w", err)
	}
	return nil
}

func (p *Pipeline) fetchOperations(ctx context.Context, now time.Time) ([]operations.Operation, error) {
	from := time.Date(p.cfg.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	ops, err := p.provider.FetchOperations(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("fetch operations: %w", err)
	}
	p.logger.WithField("operations", len(ops)).Info("operations fetched")
	return ops, nil
}

// resolveInstruments looks up every distinct FIGI in the order it first
// appears among ops. Operations without a FIGI are not tied to an instrument.
func (p *Pipeline) resolveInstruments(ctx context.Context, ops []operations.Operation) ([]instruments.Instrument, error) {
	seen := make(map[string]struct{})
	resolved := make([]instruments.Instrument, 0)

	for _, op := range ops {
		figi := op.Figi
		if figi == "" {
			continue
		}
		if _, ok := seen[figi]; ok {
			continue
		}

		if err := p.wait(ctx); err != nil {
			return nil, err
		}
		instrument, err := p.provider.SearchInstrument(ctx, figi)
		if errors.Is(err, interfaces.ErrInstrumentNotFound) || (err == nil && instrument == nil) {
			return nil, fmt.Errorf("%w with FIGI %s", ErrUnresolvedInstrument, figi)
		}
		if err != nil {
			return nil, fmt.Errorf("search instrument %s: %w", figi, err)
		}

		seen[figi] = struct{}{}
		resolved = append(resolved, *instrument)
		p.logger.WithFields(logrus.Fields{
			"ticker": instrument.Ticker,
			"name":   instrument.Name,
		}).Info("instrument resolved")
	}
	return resolved, nil
}

func (p *Pipeline) fetchCandles(ctx context.Context, items []instruments.Instrument, now time.Time) ([]marketdata.Candle, error) {
	windows := yearWindows(p.cfg.StartYear, now)
	var all []marketdata.Candle

	for _, instrument := range items {
		before := len(all)
		for _, interval := range p.cfg.Intervals {
			for _, w := range windows {
				if err := p.wait(ctx); err != nil {
					return nil, err
				}
				candles, err := p.provider.FetchCandles(ctx, instrument.Figi, interval, w.From, w.To)
				if err != nil {
					return nil, fmt.Errorf("fetch %s candles for %s %d: %w", interval, instrument.Figi, w.From.Year(), err)
				}
				all = append(all, candles...)
			}
		}
		p.logger.WithFields(logrus.Fields{
			"ticker":  instrument.Ticker,
			"name":    instrument.Name,
			"candles": len(all) - before,
		}).Info("candles fetched")
	}
	return all, nil
}

func (p *Pipeline) link(ctx context.Context, links []instruments.Link) (int64, int64, error) {
	var linkedOps, linkedCandles int64
	for _, link := range links {
		n, err := p.store.LinkOperations(ctx, link.Figi, link.ID)
		if err != nil {
			return 0, 0, fmt.Errorf("link operations of %s: %w", link.Figi, err)
		}
		linkedOps += n

		n, err = p.store.LinkCandles(ctx, link.Figi, link.ID)
		if err != nil {
			return 0, 0, fmt.Errorf("link candles of %s: %w", link.Figi, err)
		}
		linkedCandles += n
	}
	p.logger.WithFields(logrus.Fields{
		"instruments": len(links),
		"operations":  linkedOps,
		"candles":     linkedCandles,
	}).Info("instruments linked")
	return linkedOps, linkedCandles, nil
}
