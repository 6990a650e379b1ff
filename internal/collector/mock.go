package collector

import (
	"sync/atomic"
	"time"

	"StockDesk/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price    float64
	Currency string
	Bars     []model.OHLCV
	Err      error

	QuoteCalls int64
	BarCalls   int64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ string, days int) ([]model.OHLCV, error) {
	atomic.AddInt64(&m.BarCalls, 1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateMockBars(m.Price, days), nil
}

func (m *MockFetcher) FetchQuote(_ string) (*model.Quote, error) {
	atomic.AddInt64(&m.QuoteCalls, 1)
	if m.Err != nil {
		return nil, m.Err
	}
	currency := m.Currency
	if currency == "" {
		currency = "INR"
	}
	return &model.Quote{Price: m.Price, Currency: currency}, nil
}

// GenerateMockBars builds a deterministic gently trending series around a
// base price.
func GenerateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
