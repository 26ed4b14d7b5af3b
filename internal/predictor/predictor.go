// Package predictor produces next-day price forecasts, either by prompting a
// generative-AI model or by a deterministic heuristic over recent closes.
package predictor

import (
	"context"
	"errors"

	"StockPulse/internal/model"
)

// ErrInvalidResponse means the AI reply contained no parseable JSON object.
var ErrInvalidResponse = errors.New("invalid response format")

// Input carries everything a prediction strategy may use. History is the
// close-price series, oldest first, at most 30 points. Quote and Technical
// are optional and only enrich the AI prompt.
type Input struct {
	Symbol       string
	CurrentPrice float64
	History      []float64
	Quote        *model.Quote
	Technical    *model.TechnicalSnapshot
}

// Predictor is a single forecasting strategy.
type Predictor interface {
	Predict(ctx context.Context, in Input) (*model.Prediction, error)
	Name() string
}
