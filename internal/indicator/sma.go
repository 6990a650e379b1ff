package indicator

import "errors"

// ErrInsufficientData is returned when a series is shorter than the
// indicator window. Callers substitute a fallback value (commonly the
// current price) instead of propagating it.
var ErrInsufficientData = errors.New("not enough data points")

// SMA computes the simple moving average of the last `window` prices.
func SMA(prices []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(prices) < window {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(prices) - window; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(window), nil
}
