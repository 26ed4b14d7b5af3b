package market

import (
	"context"
	"errors"

	"StockPulse/internal/model"
)

// Sentinel errors for provider failures. Callers classify with errors.Is.
var (
	// ErrNotFound means the provider returned an empty payload for the symbol.
	ErrNotFound = errors.New("symbol not found")
	// ErrRateLimited means the provider rejected the call on quota, either via
	// HTTP 429 or a marker field in the payload.
	ErrRateLimited = errors.New("provider rate limited")
)

// HistoryWindow is the maximum number of trading days a history request
// returns. The dashboard charts never show more.
const HistoryWindow = 30

// Fetcher retrieves market data for a symbol.
type Fetcher interface {
	// FetchQuote returns the current quote for a symbol.
	FetchQuote(ctx context.Context, symbol string) (model.Quote, error)
	// FetchHistory returns up to `days` daily points, oldest first.
	FetchHistory(ctx context.Context, symbol string, days int) ([]model.HistoricalPoint, error)
	Name() string
}
