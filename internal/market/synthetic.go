package market

import (
	"context"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"StockPulse/internal/model"
)

// basePrices anchors synthetic data for well-known symbols so the dashboard
// shows plausible magnitudes during provider downtime.
var basePrices = map[string]float64{
	"AAPL":  175,
	"GOOGL": 140,
	"MSFT":  380,
	"AMZN":  155,
	"TSLA":  250,
	"META":  350,
	"NVDA":  495,
	"NFLX":  450,
}

// SyntheticFetcher generates plausible market data without any network call.
// Output is deterministic per (symbol, calendar day): repeated dashboard
// refreshes within a day see a stable chart.
type SyntheticFetcher struct {
	// Now allows tests to pin the clock. Defaults to time.Now.
	Now func() time.Time
}

func NewSyntheticFetcher() *SyntheticFetcher {
	return &SyntheticFetcher{Now: time.Now}
}

func (f *SyntheticFetcher) Name() string { return "synthetic" }

// BasePrice returns the anchor price for a symbol. Unlisted symbols get a
// pseudo-random base in [100, 300) derived from the symbol name.
func BasePrice(symbol string) float64 {
	if p, ok := basePrices[strings.ToUpper(symbol)]; ok {
		return p
	}
	h := fnv.New64a()
	h.Write([]byte(strings.ToUpper(symbol)))
	return 100 + float64(h.Sum64()%20000)/100
}

func (f *SyntheticFetcher) rng(symbol string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(strings.ToUpper(symbol)))
	day := f.Now().UTC().Truncate(24 * time.Hour).Unix()
	return rand.New(rand.NewSource(int64(h.Sum64()) ^ day))
}

func (f *SyntheticFetcher) FetchQuote(_ context.Context, symbol string) (model.Quote, error) {
	r := f.rng(symbol)
	base := BasePrice(symbol)

	price := base * (1 + (r.Float64()-0.5)*0.04)
	change := price * (r.Float64() - 0.5) * 0.04
	return model.Quote{
		Symbol:        strings.ToUpper(symbol),
		Price:         price,
		Change:        change,
		ChangePercent: change / (price - change) * 100,
		High:          price * 1.015,
		Low:           price * 0.985,
		Volume:        float64(10_000_000 + r.Intn(40_000_000)),
	}, nil
}

func (f *SyntheticFetcher) FetchHistory(_ context.Context, symbol string, days int) ([]model.HistoricalPoint, error) {
	if days <= 0 || days > HistoryWindow {
		days = HistoryWindow
	}
	r := f.rng(symbol)
	now := f.Now().UTC()

	// Geometric random walk, +/-2% daily, ending near the base price window.
	points := make([]model.HistoricalPoint, days)
	price := BasePrice(symbol)
	for i := 0; i < days; i++ {
		price *= 1 + (r.Float64()-0.5)*0.04
		points[i] = model.HistoricalPoint{
			Timestamp: now.AddDate(0, 0, -(days - 1 - i)).UnixMilli(),
			Price:     price,
			Volume:    float64(10_000_000 + r.Intn(40_000_000)),
		}
	}
	return points, nil
}
