package calculator

import "StockPulse/internal/model"

// RSI proxy constants. A true 14-period Wilder RSI needs more history than
// the dashboard window carries, so the estimator substitutes a fixed
// high/low constant keyed off the trend sentiment.
const (
	rsiHigh    = 65.0
	rsiLow     = 35.0
	rsiNeutral = 50.0
)

// rsiWindow caps how many recent closes feed the snapshot.
const rsiWindow = 14

// Snapshot derives the technical indicator set from the current price and
// the most recent closes. Uses at most the last 14 closes.
func Snapshot(currentPrice float64, closes []float64) model.TechnicalSnapshot {
	if len(closes) > rsiWindow {
		closes = closes[len(closes)-rsiWindow:]
	}

	if len(closes) == 0 {
		// No history at all: a flat band around the current price.
		return model.TechnicalSnapshot{
			RSI:        rsiNeutral,
			Trend:      model.TrendBullish,
			Support:    currentPrice * 0.98,
			Resistance: currentPrice * 1.02,
		}
	}

	avg := Mean(closes)
	low, high := closes[0], closes[0]
	for _, c := range closes {
		if c < low {
			low = c
		}
		if c > high {
			high = c
		}
	}

	snap := model.TechnicalSnapshot{
		Support:    low * 0.98,
		Resistance: high * 1.02,
	}
	if currentPrice >= avg {
		snap.Trend = model.TrendBullish
		snap.RSI = rsiHigh
	} else {
		snap.Trend = model.TrendBearish
		snap.RSI = rsiLow
	}
	return snap
}
