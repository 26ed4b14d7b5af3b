package calculator

import (
	"math"
	"testing"
)

func TestTrailingMean(t *testing.T) {
	prices := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109}

	tests := []struct {
		name   string
		window int
		want   float64
	}{
		{"last five", 5, 107},
		{"full window", 10, 104.5},
		{"window longer than series", 20, 104.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrailingMean(prices, tt.window)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TrailingMean(window=%d) = %.4f, want %.4f", tt.window, got, tt.want)
			}
		})
	}

	if got := TrailingMean(nil, 5); got != 0 {
		t.Errorf("empty series: got %.4f, want 0", got)
	}
	if got := TrailingMean(prices, 0); got != 0 {
		t.Errorf("zero window: got %.4f, want 0", got)
	}
}

func TestVolatility_FlatSeries(t *testing.T) {
	prices := []float64{100, 100, 100, 100, 100}
	if got := Volatility(prices); got != 0 {
		t.Errorf("flat series volatility = %f, want 0", got)
	}
}

func TestVolatility_ShortSeries(t *testing.T) {
	if got := Volatility([]float64{100, 101}); got != 0 {
		t.Errorf("two-point series volatility = %f, want 0", got)
	}
	if got := Volatility(nil); got != 0 {
		t.Errorf("empty series volatility = %f, want 0", got)
	}
}

func TestVolatility_Alternating(t *testing.T) {
	// Alternating +10%/-9.09% moves have clearly nonzero dispersion.
	prices := []float64{100, 110, 100, 110, 100, 110}
	got := Volatility(prices)
	if got <= 0.05 {
		t.Errorf("alternating series volatility = %f, want > 0.05", got)
	}
}

func TestRegressionSlope(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"unit ramp", []float64{100, 101, 102, 103, 104}, 1},
		{"flat", []float64{50, 50, 50, 50}, 0},
		{"descending", []float64{10, 8, 6, 4, 2}, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RegressionSlope(tt.values)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("slope = %.4f, want %.4f", got, tt.want)
			}
		})
	}
}

func TestRegressionSlope_TooFewPoints(t *testing.T) {
	if _, err := RegressionSlope([]float64{42}); err == nil {
		t.Error("expected error for single point")
	}
	if _, err := RegressionSlope(nil); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(0.1, -0.05, 0.05); got != 0.05 {
		t.Errorf("Clamp high = %f, want 0.05", got)
	}
	if got := Clamp(-0.1, -0.05, 0.05); got != -0.05 {
		t.Errorf("Clamp low = %f, want -0.05", got)
	}
	if got := Clamp(0.01, -0.05, 0.05); got != 0.01 {
		t.Errorf("Clamp inside = %f, want 0.01", got)
	}
}
