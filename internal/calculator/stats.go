package calculator

import (
	"errors"
	"math"
)

// Mean returns the arithmetic mean of prices, or 0 for an empty slice.
func Mean(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

// TrailingMean computes the mean of the last `window` prices, using all
// available points when the series is shorter than the window.
func TrailingMean(prices []float64, window int) float64 {
	if window <= 0 || len(prices) == 0 {
		return 0
	}
	if window > len(prices) {
		window = len(prices)
	}
	return Mean(prices[len(prices)-window:])
}

// LogReturns computes ln(p[i+1]/p[i]) for each consecutive pair.
// Requires positive prices; callers guarantee non-zero historical closes.
func LogReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, len(prices)-1)
	for i := 0; i < len(prices)-1; i++ {
		returns[i] = math.Log(prices[i+1] / prices[i])
	}
	return returns
}

// Volatility returns the population standard deviation of the log returns of
// the price series. Non-finite returns (from zero or negative prices) are
// dropped rather than propagated. Returns 0 when fewer than two finite
// returns remain.
func Volatility(prices []float64) float64 {
	var returns []float64
	for _, r := range LogReturns(prices) {
		if !math.IsNaN(r) && !math.IsInf(r, 0) {
			returns = append(returns, r)
		}
	}
	if len(returns) < 2 {
		return 0
	}
	mean := Mean(returns)
	var sumSq float64
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(returns)))
}

// RegressionSlope fits a least-squares line through (0, y[0])..(n-1, y[n-1])
// and returns its slope. Undefined for fewer than two points.
func RegressionSlope(values []float64) (float64, error) {
	n := len(values)
	if n < 2 {
		return 0, errors.New("regression needs at least two points")
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, errors.New("degenerate regression window")
	}
	return (fn*sumXY - sumX*sumY) / denom, nil
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
