package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Period is a supported lookback window for historical data.
type Period string

const (
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period5Y  Period = "5y"
)

// Days maps a period to its calendar day count. Unknown periods fall back
// to one month.
func (p Period) Days() int {
	switch p {
	case Period3Mo:
		return 90
	case Period6Mo:
		return 180
	case Period1Y:
		return 365
	case Period5Y:
		return 1825
	default:
		return 30
	}
}

// Valid reports whether the period is one of the supported lookbacks.
func (p Period) Valid() bool {
	switch p {
	case Period1Mo, Period3Mo, Period6Mo, Period1Y, Period5Y:
		return true
	}
	return false
}

// CurrencySymbol maps an ISO currency code to its display symbol.
// Unknown codes are shown as-is.
func CurrencySymbol(code string) string {
	switch code {
	case "INR":
		return "₹"
	case "USD":
		return "$"
	default:
		return code
	}
}
