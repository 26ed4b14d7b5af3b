package predictor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"StockPulse/internal/model"
	"StockPulse/internal/store"
)

// Engine is the prediction front door: it checks the cache for today's
// forecast, otherwise runs the AI strategy when one is configured, and falls
// back silently to the heuristic on any AI failure. The fallback policy is
// uniform across all call sites; AI errors are logged, never surfaced.
type Engine struct {
	AI        Predictor // nil when no AI credential is configured
	Heuristic Predictor
	Store     store.Store
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewEngine(ai Predictor, store store.Store, logger *zap.Logger) *Engine {
	return &Engine{
		AI:        ai,
		Heuristic: NewHeuristic(),
		Store:     store,
		Logger:    logger,
		Now:       time.Now,
	}
}

// Predict returns today's forecast for the input, reusing the cached one
// when present. The boolean reports whether the result came from the cache.
func (e *Engine) Predict(ctx context.Context, in Input) (*model.Prediction, bool, error) {
	in.Symbol = strings.ToUpper(in.Symbol)
	date := e.Now().Format("2006-01-02")

	cached, err := e.Store.GetPrediction(in.Symbol, date)
	if err != nil {
		// A broken cache shouldn't break predictions; log and compute fresh.
		e.Logger.Warn("prediction cache read failed", zap.String("symbol", in.Symbol), zap.Error(err))
	}
	if cached != nil {
		return cached, true, nil
	}

	p, err := e.compute(ctx, in)
	if err != nil {
		return nil, false, err
	}
	p.PredictionDate = date

	if err := e.Store.UpsertPrediction(p); err != nil {
		e.Logger.Warn("prediction cache write failed", zap.String("symbol", in.Symbol), zap.Error(err))
	}
	return p, false, nil
}

func (e *Engine) compute(ctx context.Context, in Input) (*model.Prediction, error) {
	if e.AI != nil {
		p, err := e.AI.Predict(ctx, in)
		if err == nil {
			return p, nil
		}
		e.Logger.Warn("AI prediction failed, falling back to heuristic",
			zap.String("symbol", in.Symbol), zap.Error(err))
	}
	p, err := e.Heuristic.Predict(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("heuristic predict: %w", err)
	}
	return p, nil
}
