package strategy

import (
	"StockDesk/internal/indicator"
	"StockDesk/internal/model"
)

// mapLabel maps a raw component sum to the discrete five-level signal.
// Evaluated in order, first match wins.
func mapLabel(score float64) model.RecommendationLabel {
	switch {
	case score >= 0.5:
		return model.StrongBuy
	case score >= 0.15:
		return model.Buy
	case score > -0.15:
		return model.Hold
	case score > -0.5:
		return model.Sell
	default:
		return model.StrongSell
	}
}

// targetOffset is the per-label multiple of sigma added to SMA20.
func targetOffset(label model.RecommendationLabel) float64 {
	switch label {
	case model.StrongBuy:
		return 0.7
	case model.Buy:
		return 0.3
	case model.Sell:
		return -0.3
	case model.StrongSell:
		return -0.7
	default:
		return 0
	}
}

// Evaluate derives a trading recommendation from a fetch result. The score
// is the raw sum of four fixed-magnitude components; it is deliberately not
// clamped or re-normalized. Pure given its input, so callers recompute it
// freely from cached data.
func Evaluate(res *model.FetchResult) *model.Recommendation {
	if res == nil || len(res.Bars) == 0 {
		return nil
	}

	price := res.Price
	closes := res.Closes()

	// Undefined moving averages substitute the current price; undefined
	// bands fall back to a 5% envelope around SMA20.
	sma20 := res.Indicators.SMA20Or(price)
	sma50 := res.Indicators.SMA50Or(price)
	sma200 := res.Indicators.SMA200Or(price)

	upper, lower := sma20*1.05, sma20*0.95
	if res.Indicators.BollingerUpper != nil && res.Indicators.BollingerLower != nil {
		upper = *res.Indicators.BollingerUpper
		lower = *res.Indicators.BollingerLower
	}

	factors := []model.Factor{
		scoreMeanReversion(price, upper, lower),
		scoreMomentum(res.Indicators.RSI14),
		scoreTrend(sma50, sma200),
		scoreVolumeSurge(res.Volumes()),
	}

	score := 0.0
	for _, f := range factors {
		score += f.Score
	}
	label := mapLabel(score)

	sigma := price * 0.05
	if len(closes) >= 2 {
		sigma = indicator.PopStdDev(closes)
	}

	target := price
	if label != model.Hold {
		target = sma20 + targetOffset(label)*sigma
	}

	return &model.Recommendation{
		Symbol:      res.Symbol,
		Label:       label,
		Score:       score,
		TargetPrice: target,
		Factors:     factors,
	}
}
