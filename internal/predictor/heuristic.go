package predictor

import (
	"context"
	"math"
	"math/rand"
	"time"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

const (
	shortWindow = 5
	longWindow  = 10

	trendWeight    = 0.5
	momentumWeight = 0.3
	crossoverNudge = 0.01

	maxDailyMove = 0.05

	minConfidence = 50
	maxConfidence = 95
)

// Heuristic is the deterministic fallback strategy: a moving-average
// crossover nudge blended with a linear trend and short-horizon momentum,
// bounded by realized volatility. Pure for histories of five or more points.
type Heuristic struct {
	// Rand feeds the short-history branch only. Defaults to a time-seeded
	// source.
	Rand *rand.Rand
	// Now stamps the prediction date. Defaults to time.Now.
	Now func() time.Time
}

func NewHeuristic() *Heuristic {
	return &Heuristic{
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:  time.Now,
	}
}

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) Predict(_ context.Context, in Input) (*model.Prediction, error) {
	p := h.predict(in.CurrentPrice, in.History)
	p.Symbol = in.Symbol
	p.PredictionDate = h.now().Format("2006-01-02")
	return p, nil
}

func (h *Heuristic) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Heuristic) predict(currentPrice float64, history []float64) *model.Prediction {
	if len(history) < shortWindow {
		// Too little signal: a small random drift around the current price.
		if h.Rand == nil {
			h.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		drift := (h.Rand.Float64()*2 - 1) * 0.01
		return &model.Prediction{
			CurrentPrice:   currentPrice,
			PredictedPrice: currentPrice * (1 + drift),
			Confidence:     65,
		}
	}

	shortMA := calculator.TrailingMean(history, shortWindow)
	longMA := calculator.TrailingMean(history, longWindow)
	volatility := calculator.Volatility(history)

	trendWindow := history
	if len(trendWindow) > longWindow {
		trendWindow = trendWindow[len(trendWindow)-longWindow:]
	}
	trend := 0.0
	if mean := calculator.Mean(trendWindow); mean != 0 {
		if slope, err := calculator.RegressionSlope(trendWindow); err == nil {
			trend = slope / mean
		}
	}

	momentum := 0.0
	if lookback := history[len(history)-shortWindow]; lookback != 0 {
		momentum = (currentPrice - lookback) / lookback
	}

	factor := 0.0
	confidence := 70.0
	if shortMA > longMA {
		factor += crossoverNudge
	} else {
		factor -= crossoverNudge
	}
	confidence += 5

	factor += trend * trendWeight
	factor += momentum * momentumWeight

	maxChange := math.Min(maxDailyMove, volatility*2)
	factor = calculator.Clamp(factor, -maxChange, maxChange)

	confidence = calculator.Clamp(confidence-volatility*100, minConfidence, maxConfidence)

	return &model.Prediction{
		CurrentPrice:   currentPrice,
		PredictedPrice: currentPrice * (1 + factor),
		Confidence:     math.Round(confidence),
	}
}
