package strategy

import (
	"fmt"

	"StockDesk/internal/model"
)

// scoreMeanReversion scores the close against the Bollinger envelope.
// Contribution: ±0.3
func scoreMeanReversion(price, upper, lower float64) model.Factor {
	var score float64
	var commentary string
	switch {
	case price <= lower:
		score = 0.3
		commentary = "close at or below lower band"
	case price >= upper:
		score = -0.3
		commentary = "close at or above upper band"
	default:
		commentary = "close inside bands"
	}
	return model.Factor{Name: "mean reversion", Score: score, Commentary: commentary}
}

// scoreMomentum scores the RSI(14) oversold/overbought state.
// Contribution: ±0.25
func scoreMomentum(rsi float64) model.Factor {
	var score float64
	switch {
	case rsi < 30:
		score = 0.25
	case rsi > 70:
		score = -0.25
	}
	return model.Factor{Name: "momentum", Score: score, Commentary: fmt.Sprintf("RSI=%.0f", rsi)}
}

// scoreTrend scores the SMA50/SMA200 cross state.
// Contribution: ±0.25
func scoreTrend(sma50, sma200 float64) model.Factor {
	var score float64
	var commentary string
	switch {
	case sma50 > sma200:
		score = 0.25
		commentary = "golden cross"
	case sma50 < sma200:
		score = -0.25
		commentary = "death cross"
	default:
		commentary = "flat"
	}
	return model.Factor{Name: "trend", Score: score, Commentary: commentary}
}

// scoreVolumeSurge scores a volume spike against the trailing 10-bar mean.
// Only evaluated when at least 10 volume points exist.
// Contribution: +0.2
func scoreVolumeSurge(volumes []float64) model.Factor {
	if len(volumes) < 10 {
		return model.Factor{Name: "volume", Commentary: "insufficient volume history"}
	}
	sum := 0.0
	for _, v := range volumes[len(volumes)-10:] {
		sum += v
	}
	avg := sum / 10
	latest := volumes[len(volumes)-1]

	if latest > 1.5*avg {
		return model.Factor{Name: "volume", Score: 0.2, Commentary: "volume surge"}
	}
	return model.Factor{Name: "volume", Commentary: "normal volume"}
}
