package indicator

import "errors"

// RSI computes the Relative Strength Index over the given window using
// plain rolling means of gains and losses (not Wilder smoothing).
// Returns the neutral value 50 when fewer than window+1 prices exist or the
// series is flat, and saturates to 100 when gains exist without losses.
func RSI(prices []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(prices) < window+1 {
		return 50.0, nil
	}

	// Mean gain/loss over the most recent `window` close-to-close deltas.
	var meanGain, meanLoss float64
	for i := len(prices) - window; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			meanGain += change
		} else {
			meanLoss -= change
		}
	}
	meanGain /= float64(window)
	meanLoss /= float64(window)

	if meanLoss == 0 {
		if meanGain == 0 {
			return 50.0, nil
		}
		return 100.0, nil
	}
	rs := meanGain / meanLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
