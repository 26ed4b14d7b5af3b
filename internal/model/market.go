package model

// Quote is a point-in-time snapshot for a single symbol. Produced fresh per
// request, never persisted.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        float64 `json:"volume"`
	MarketCap     float64 `json:"marketCap,omitempty"`
}

// HistoricalPoint is one trading day of a close-price series.
type HistoricalPoint struct {
	Timestamp int64   `json:"timestamp"` // epoch millis
	Price     float64 `json:"price"`     // close
	Volume    float64 `json:"volume"`
}

// Closes extracts close prices from a chronological series.
func Closes(points []HistoricalPoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Price
	}
	return closes
}

// Source tells callers where fetched data came from, so the dashboard can
// distinguish degraded results from fresh ones.
type Source string

const (
	SourceLive      Source = "live"
	SourceSynthetic Source = "synthetic"
)

// QuoteResult pairs a quote with its data source.
type QuoteResult struct {
	Quote  Quote  `json:"quote"`
	Source Source `json:"source"`
}

// HistoryResult pairs a historical series with its data source.
type HistoryResult struct {
	Points []HistoricalPoint `json:"points"`
	Source Source            `json:"source"`
}
