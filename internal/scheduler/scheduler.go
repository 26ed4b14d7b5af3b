// Package scheduler precomputes watchlist predictions on a cron so the first
// dashboard hit of the trading day is served from cache.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockPulse/internal/calculator"
	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/predictor"
)

// Scheduler manages the cron-driven watchlist refresh.
type Scheduler struct {
	Cron     *cron.Cron
	Fallback *market.FallbackFetcher
	Engine   *predictor.Engine
	Symbols  []string
	Logger   *zap.Logger
	Ctx      context.Context
}

func New(ctx context.Context, fallback *market.FallbackFetcher, engine *predictor.Engine, symbols []string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Fallback: fallback,
		Engine:   engine,
		Symbols:  symbols,
		Logger:   logger,
		Ctx:      ctx,
	}
}

// Register adds the refresh task with the given cron spec (seconds field
// included).
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.RefreshAll); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Strings("watchlist", s.Symbols))
}

func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.Logger.Info("scheduler stopped")
}

// RefreshAll warms today's prediction for every watchlist symbol. Failures
// are per-symbol; one bad symbol never blocks the rest.
func (s *Scheduler) RefreshAll() {
	for _, symbol := range s.Symbols {
		if err := s.refresh(symbol); err != nil {
			s.Logger.Warn("watchlist refresh failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
}

func (s *Scheduler) refresh(symbol string) error {
	quote, err := s.Fallback.Quote(s.Ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch quote: %w", err)
	}
	history, err := s.Fallback.History(s.Ctx, symbol, market.HistoryWindow)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	closes := model.Closes(history.Points)
	in := predictor.Input{
		Symbol:       symbol,
		CurrentPrice: quote.Quote.Price,
		History:      closes,
		Quote:        &quote.Quote,
	}
	if len(closes) > 0 {
		snap := calculator.Snapshot(quote.Quote.Price, closes)
		in.Technical = &snap
	}

	p, cached, err := s.Engine.Predict(s.Ctx, in)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	s.Logger.Info("watchlist prediction warmed",
		zap.String("symbol", symbol),
		zap.Float64("predicted", p.PredictedPrice),
		zap.Float64("confidence", p.Confidence),
		zap.Bool("cached", cached),
	)
	return nil
}
