package model

// TechnicalSnapshot holds the derived indicator set for a symbol. Ephemeral,
// recomputed per request.
type TechnicalSnapshot struct {
	RSI        float64 `json:"rsi"`   // 0-100 scale, approximate
	Trend      string  `json:"trend"` // "bullish" or "bearish"
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
}

const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"
)

// Prediction is a next-day price forecast. At most one stored prediction
// exists per (symbol, prediction date) pair; writes upsert on that key.
type Prediction struct {
	Symbol         string  `json:"symbol"`
	CurrentPrice   float64 `json:"currentPrice"`
	PredictedPrice float64 `json:"predictedPrice"`
	Confidence     float64 `json:"confidence"` // 50-95 inclusive
	PredictionDate string  `json:"predictionDate"`
	Reasoning      string  `json:"reasoning,omitempty"`
}
