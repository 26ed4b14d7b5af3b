package market

import (
	"context"

	"StockPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Quote      model.Quote
	History    []model.HistoricalPoint
	QuoteErr   error
	HistoryErr error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(_ context.Context, _ string) (model.Quote, error) {
	if m.QuoteErr != nil {
		return model.Quote{}, m.QuoteErr
	}
	return m.Quote, nil
}

func (m *MockFetcher) FetchHistory(_ context.Context, _ string, days int) ([]model.HistoricalPoint, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	points := m.History
	if len(points) > days {
		points = points[len(points)-days:]
	}
	return points, nil
}
