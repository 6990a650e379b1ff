package indicator

import (
	"errors"
	"math"
)

// Bollinger computes the upper and lower Bollinger Bands: SMA(window) plus
// and minus k sample standard deviations over the same window.
func Bollinger(prices []float64, window int, k float64) (upper, lower float64, err error) {
	if window <= 1 {
		return 0, 0, errors.New("window must be greater than one")
	}
	if len(prices) < window {
		return 0, 0, ErrInsufficientData
	}
	sma, err := SMA(prices, window)
	if err != nil {
		return 0, 0, err
	}
	sigma := StdDev(prices[len(prices)-window:])
	return sma + k*sigma, sma - k*sigma, nil
}

// StdDev returns the sample standard deviation (n-1 denominator) of the
// given values. Returns 0 for fewer than two values.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(n-1))
}

// PopStdDev returns the population standard deviation (n denominator).
func PopStdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(n))
}
