package model

// IndicatorSnapshot holds derived indicator values for the latest bar of a
// price series. Moving averages and bands are nil when the series is shorter
// than the indicator window; consumers substitute the current price rather
// than propagate the nil into arithmetic.
type IndicatorSnapshot struct {
	SMA20          *float64 `json:"sma_20,omitempty"`
	SMA50          *float64 `json:"sma_50,omitempty"`
	SMA200         *float64 `json:"sma_200,omitempty"`
	RSI14          float64  `json:"rsi"`
	BollingerUpper *float64 `json:"bollinger_upper,omitempty"`
	BollingerLower *float64 `json:"bollinger_lower,omitempty"`
}

// SMA20Or returns SMA20, or the fallback when undefined.
func (s *IndicatorSnapshot) SMA20Or(fallback float64) float64 {
	if s.SMA20 == nil {
		return fallback
	}
	return *s.SMA20
}

// SMA50Or returns SMA50, or the fallback when undefined.
func (s *IndicatorSnapshot) SMA50Or(fallback float64) float64 {
	if s.SMA50 == nil {
		return fallback
	}
	return *s.SMA50
}

// SMA200Or returns SMA200, or the fallback when undefined.
func (s *IndicatorSnapshot) SMA200Or(fallback float64) float64 {
	if s.SMA200 == nil {
		return fallback
	}
	return *s.SMA200
}
