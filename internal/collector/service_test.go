package collector

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"StockDesk/internal/cache"
	"StockDesk/internal/model"
)

func newTestService(t *testing.T, f Fetcher) *Service {
	t.Helper()
	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return NewService(f, c)
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"reliance", "RELIANCE.NS"},
		{"RELIANCE.NS", "RELIANCE.NS"},
		{"TATASTEEL.BO", "TATASTEEL.BO"},
		{" tcs ", "TCS.NS"},
		{"^NSEI", "^NSEI"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeSymbol(tt.in); got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateFallbackBars(t *testing.T) {
	for _, period := range []model.Period{model.Period1Mo, model.Period3Mo, model.Period6Mo, model.Period1Y, model.Period5Y} {
		bars := GenerateFallbackBars(period)
		if len(bars) != period.Days() {
			t.Errorf("%s: expected %d bars, got %d", period, period.Days(), len(bars))
		}
		for i, b := range bars {
			if b.Close <= 0 {
				t.Fatalf("%s: non-positive close at %d", period, i)
			}
			if b.High < b.Close || b.Low > b.Close {
				t.Fatalf("%s: close outside high/low envelope at %d", period, i)
			}
			if i > 0 && !bars[i-1].Time.Before(b.Time) {
				t.Fatalf("%s: timestamps not strictly increasing at %d", period, i)
			}
		}
	}
}

func TestService_FetchComputesIndicators(t *testing.T) {
	mock := &MockFetcher{Price: 2500, Currency: "INR"}
	svc := newTestService(t, mock)

	res := svc.Fetch("reliance", model.Period1Mo)
	if res == nil {
		t.Fatal("expected non-nil result")
	}
	if res.Fallback {
		t.Error("successful fetch should not be flagged as fallback")
	}
	if res.Symbol != "RELIANCE.NS" {
		t.Errorf("expected normalized symbol, got %q", res.Symbol)
	}
	if res.Price != 2500 {
		t.Errorf("expected quote price 2500, got %f", res.Price)
	}
	if res.Currency != "₹" {
		t.Errorf("expected INR display symbol, got %q", res.Currency)
	}
	if res.Indicators.SMA20 == nil {
		t.Error("expected SMA20 to be defined for a 30-bar series")
	}
	if res.Indicators.SMA200 != nil {
		t.Error("SMA200 should be undefined for a 30-bar series")
	}
	if res.Indicators.RSI14 < 0 || res.Indicators.RSI14 > 100 {
		t.Errorf("RSI out of bounds: %f", res.Indicators.RSI14)
	}
	if res.Indicators.BollingerUpper == nil || res.Indicators.BollingerLower == nil {
		t.Fatal("expected Bollinger bands for a 30-bar series")
	}
	if *res.Indicators.BollingerUpper < *res.Indicators.SMA20 || *res.Indicators.SMA20 < *res.Indicators.BollingerLower {
		t.Error("expected upper >= sma20 >= lower")
	}
}

func TestService_FetchUsesCache(t *testing.T) {
	mock := &MockFetcher{Price: 2500}
	svc := newTestService(t, mock)

	svc.Fetch("TCS", model.Period1Mo)
	svc.Fetch("TCS", model.Period1Mo)

	if n := atomic.LoadInt64(&mock.BarCalls); n != 1 {
		t.Errorf("expected one upstream history call, got %d", n)
	}

	// Same symbol, different period is a separate cache key.
	svc.Fetch("TCS", model.Period1Y)
	if n := atomic.LoadInt64(&mock.BarCalls); n != 2 {
		t.Errorf("expected second upstream call for new period, got %d", n)
	}
}

func TestService_FetchFallsBackOnFailure(t *testing.T) {
	mock := &MockFetcher{Err: errors.New("connection refused")}
	svc := newTestService(t, mock)

	res := svc.Fetch("INFY", model.Period3Mo)
	if res == nil {
		t.Fatal("upstream failure must not produce a nil result")
	}
	if !res.Fallback {
		t.Error("expected fallback flag on synthetic data")
	}
	if len(res.Bars) != model.Period3Mo.Days() {
		t.Errorf("expected %d synthetic bars, got %d", model.Period3Mo.Days(), len(res.Bars))
	}
	if res.Price != res.Bars[len(res.Bars)-1].Close {
		t.Error("fallback price should equal the last synthetic close")
	}

	// Synthetic results are not cached; the next lookup retries upstream.
	svc.Fetch("INFY", model.Period3Mo)
	if n := atomic.LoadInt64(&mock.QuoteCalls); n != 2 {
		t.Errorf("expected fallback to stay uncached, got %d quote calls", n)
	}
}

func TestService_FetchInvalidPeriodDefaults(t *testing.T) {
	svc := newTestService(t, &MockFetcher{Price: 100})
	res := svc.Fetch("SBIN", model.Period("2w"))
	if res.Period != model.Period1Mo {
		t.Errorf("unsupported period should fall back to 1mo, got %s", res.Period)
	}
}

func TestService_Validate(t *testing.T) {
	mock := &MockFetcher{Price: 150}
	svc := newTestService(t, mock)

	if !svc.Validate("wipro") {
		t.Fatal("expected valid symbol")
	}
	// Second validation is served from the probe cache.
	svc.Validate("wipro")
	if n := atomic.LoadInt64(&mock.QuoteCalls); n != 1 {
		t.Errorf("expected one quote call for repeated validation, got %d", n)
	}
	if n := atomic.LoadInt64(&mock.BarCalls); n != 0 {
		t.Errorf("validation must not fetch full history, got %d bar calls", n)
	}

	bad := newTestService(t, &MockFetcher{Err: errors.New("no such symbol")})
	if bad.Validate("NOPE") {
		t.Error("expected invalid symbol on upstream failure")
	}
	if bad.Validate("") {
		t.Error("empty symbol should be invalid")
	}
}

// slowFetcher delays each quote call so concurrent fetches overlap.
type slowFetcher struct {
	MockFetcher
	delay time.Duration
}

func (s *slowFetcher) FetchQuote(symbol string) (*model.Quote, error) {
	time.Sleep(s.delay)
	return s.MockFetcher.FetchQuote(symbol)
}

func TestService_ConcurrentFetchDeduplicated(t *testing.T) {
	slow := &slowFetcher{MockFetcher: MockFetcher{Price: 900}, delay: 50 * time.Millisecond}
	svc := newTestService(t, slow)

	var wg sync.WaitGroup
	results := make([]*model.FetchResult, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Fetch("HDFCBANK", model.Period1Mo)
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt64(&slow.QuoteCalls); n != 1 {
		t.Errorf("expected a single deduplicated upstream call, got %d", n)
	}
	for i, res := range results {
		if res == nil || res.Symbol != "HDFCBANK.NS" {
			t.Fatalf("result %d missing or wrong: %+v", i, res)
		}
	}
}
