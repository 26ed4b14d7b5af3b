package store

import "StockPulse/internal/model"

// Store memoizes one prediction per (symbol, prediction date). There is no
// eviction and no TTL; the date key rolls over naturally.
type Store interface {
	// GetPrediction returns the stored prediction for the key, or nil when
	// none exists.
	GetPrediction(symbol, date string) (*model.Prediction, error)
	// UpsertPrediction inserts the prediction, replacing any existing row
	// with the same (symbol, prediction date).
	UpsertPrediction(p *model.Prediction) error
	Close() error
}
