package market

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"StockPulse/internal/model"
)

// FallbackFetcher serves live data when it can and synthetic data when it
// can't. The dashboard must never block on provider downtime, so every call
// succeeds; the result's Source field says which path produced it.
type FallbackFetcher struct {
	Live   Fetcher // nil when no market API key is configured
	Synth  *SyntheticFetcher
	Logger *zap.Logger
}

func NewFallbackFetcher(live Fetcher, logger *zap.Logger) *FallbackFetcher {
	return &FallbackFetcher{
		Live:   live,
		Synth:  NewSyntheticFetcher(),
		Logger: logger,
	}
}

// Quote fetches the live quote, substituting synthetic data on any failure.
func (f *FallbackFetcher) Quote(ctx context.Context, symbol string) (model.QuoteResult, error) {
	symbol = strings.ToUpper(symbol)
	if f.Live != nil {
		q, err := f.Live.FetchQuote(ctx, symbol)
		if err == nil {
			return model.QuoteResult{Quote: q, Source: model.SourceLive}, nil
		}
		f.Logger.Warn("live quote failed, using synthetic",
			zap.String("symbol", symbol), zap.Error(err))
	}
	q, err := f.Synth.FetchQuote(ctx, symbol)
	if err != nil {
		return model.QuoteResult{}, err
	}
	return model.QuoteResult{Quote: q, Source: model.SourceSynthetic}, nil
}

// History fetches up to `days` points of live history, substituting a
// synthetic series on any failure.
func (f *FallbackFetcher) History(ctx context.Context, symbol string, days int) (model.HistoryResult, error) {
	symbol = strings.ToUpper(symbol)
	if f.Live != nil {
		points, err := f.Live.FetchHistory(ctx, symbol, days)
		if err == nil {
			return model.HistoryResult{Points: points, Source: model.SourceLive}, nil
		}
		f.Logger.Warn("live history failed, using synthetic",
			zap.String("symbol", symbol), zap.Error(err))
	}
	points, err := f.Synth.FetchHistory(ctx, symbol, days)
	if err != nil {
		return model.HistoryResult{}, err
	}
	return model.HistoryResult{Points: points, Source: model.SourceSynthetic}, nil
}
