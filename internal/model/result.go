package model

import "time"

// Quote holds the latest price and currency metadata for a symbol.
type Quote struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// FetchResult bundles everything the fetcher produces for one
// (symbol, period) lookup: the bar history, the latest quote, and the
// indicator snapshot derived from the closes.
type FetchResult struct {
	Symbol     string            `json:"symbol"`
	Period     Period            `json:"period"`
	Price      float64           `json:"price"`
	Currency   string            `json:"currency"`
	Bars       []OHLCV           `json:"bars"`
	Indicators IndicatorSnapshot `json:"indicators"`
	Fallback   bool              `json:"fallback,omitempty"`
	FetchedAt  time.Time         `json:"fetched_at"`
}

// Closes extracts the close column from the bar history.
func (r *FetchResult) Closes() []float64 {
	closes := make([]float64, len(r.Bars))
	for i, b := range r.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the volume column from the bar history.
func (r *FetchResult) Volumes() []float64 {
	volumes := make([]float64, len(r.Bars))
	for i, b := range r.Bars {
		volumes[i] = b.Volume
	}
	return volumes
}
