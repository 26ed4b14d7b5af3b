package predictor

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"StockPulse/internal/calculator"
)

func testHeuristic() *Heuristic {
	return &Heuristic{
		Rand: rand.New(rand.NewSource(1)),
		Now:  func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestHeuristic_ShortHistory(t *testing.T) {
	h := testHeuristic()
	for _, history := range [][]float64{nil, {100}, {100, 101}, {100, 101, 102, 103}} {
		p, err := h.Predict(context.Background(), Input{
			Symbol:       "AAPL",
			CurrentPrice: 150,
			History:      history,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Confidence != 65 {
			t.Errorf("history len %d: confidence = %.0f, want exactly 65", len(history), p.Confidence)
		}
		ratio := p.PredictedPrice/p.CurrentPrice - 1
		if math.Abs(ratio) > 0.01 {
			t.Errorf("history len %d: drift %.4f exceeds 1%%", len(history), ratio)
		}
		if p.PredictionDate != "2024-01-01" {
			t.Errorf("prediction date = %q, want 2024-01-01", p.PredictionDate)
		}
	}
}

func TestHeuristic_WorkedExample(t *testing.T) {
	history := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109}
	current := 110.0

	h := testHeuristic()
	p, err := h.Predict(context.Background(), Input{Symbol: "AAPL", CurrentPrice: current, History: history})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Crossover is positive (shortMA 107 > longMA 104.5), so confidence
	// starts at 75; realized volatility of a near-steady ramp only shaves
	// off a fraction, which rounds back to 75.
	if p.Confidence != 75 {
		t.Errorf("confidence = %.0f, want 75", p.Confidence)
	}

	// The raw factor (+0.01 crossover, +trend*0.5, +momentum*0.3) far
	// exceeds the volatility bound, so the move clamps to exactly
	// 2*volatility.
	vol := calculator.Volatility(history)
	maxChange := math.Min(0.05, vol*2)
	want := current * (1 + maxChange)
	if math.Abs(p.PredictedPrice-want) > 1e-9 {
		t.Errorf("predicted = %.6f, want %.6f (clamped to volatility bound)", p.PredictedPrice, want)
	}
	if p.PredictedPrice <= current {
		t.Error("expected an upward prediction for a rising series")
	}
}

func TestHeuristic_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		history []float64
	}{
		{"steady ramp", 110, []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109}},
		{"decline", 90, []float64{109, 108, 107, 105, 104, 102, 101, 100, 96, 95}},
		{"volatile", 100, []float64{100, 110, 95, 108, 92, 111, 90, 112, 94, 105}},
		{"flat", 100, []float64{100, 100, 100, 100, 100, 100}},
		{"five points", 104, []float64{100, 101, 102, 103, 104}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHeuristic()
			p, err := h.Predict(context.Background(), Input{
				Symbol: "X", CurrentPrice: tt.current, History: tt.history,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Confidence < 50 || p.Confidence > 95 {
				t.Errorf("confidence %.0f outside [50, 95]", p.Confidence)
			}
			bound := math.Min(0.05, 2*calculator.Volatility(tt.history))
			ratio := math.Abs(p.PredictedPrice/tt.current - 1)
			if ratio > bound+1e-12 {
				t.Errorf("move %.6f exceeds bound %.6f", ratio, bound)
			}
		})
	}
}

func TestHeuristic_Deterministic(t *testing.T) {
	history := []float64{100, 98, 103, 101, 99, 104, 102, 105}
	in := Input{Symbol: "MSFT", CurrentPrice: 106, History: history}

	h := testHeuristic()
	first, err := h.Predict(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := h.Predict(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.PredictedPrice != second.PredictedPrice || first.Confidence != second.Confidence {
		t.Errorf("identical inputs diverged: (%.6f, %.0f) vs (%.6f, %.0f)",
			first.PredictedPrice, first.Confidence, second.PredictedPrice, second.Confidence)
	}
}

func TestHeuristic_ZeroPriceGuards(t *testing.T) {
	// Zero closes would divide by zero in trend and momentum; both must
	// degrade to a zero contribution instead of NaN.
	h := testHeuristic()
	p, err := h.Predict(context.Background(), Input{
		Symbol: "X", CurrentPrice: 100,
		History: []float64{0, 0, 0, 0, 0, 0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(p.PredictedPrice) || math.IsNaN(p.Confidence) {
		t.Errorf("NaN leaked: price %.4f confidence %.4f", p.PredictedPrice, p.Confidence)
	}
}
