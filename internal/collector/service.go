package collector

import (
	"log"
	"sync"
	"time"

	"StockDesk/internal/cache"
	"StockDesk/internal/indicator"
	"StockDesk/internal/model"
)

// fetchCall tracks one in-flight upstream fetch so concurrent callers for
// the same (symbol, period) share a single upstream request.
type fetchCall struct {
	done chan struct{}
	res  *model.FetchResult
}

// Service orchestrates the cache, the fetcher, and indicator computation.
// All upstream failures degrade to cached, synthetic, or negative results;
// they are never propagated to callers as errors.
type Service struct {
	fetcher Fetcher
	cache   *cache.Cache

	mu       sync.Mutex
	inflight map[string]*fetchCall
}

// NewService creates a Service over the given fetcher and cache.
func NewService(fetcher Fetcher, c *cache.Cache) *Service {
	return &Service{
		fetcher:  fetcher,
		cache:    c,
		inflight: make(map[string]*fetchCall),
	}
}

// Fetch returns the enriched market data for a symbol over a lookback
// period: cached when fresh, fetched and cached otherwise, synthetic when
// the upstream source fails. Unsupported periods fall back to one month.
func (s *Service) Fetch(symbol string, period model.Period) *model.FetchResult {
	symbol = NormalizeSymbol(symbol)
	if !period.Valid() {
		period = model.Period1Mo
	}

	if res, ok := s.cache.Get(symbol, period); ok {
		return res
	}

	key := symbol + "_" + string(period)
	s.mu.Lock()
	if call, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		<-call.done
		return call.res
	}
	call := &fetchCall{done: make(chan struct{})}
	s.inflight[key] = call
	s.mu.Unlock()

	call.res = s.fetchFresh(symbol, period)
	close(call.done)

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()

	return call.res
}

func (s *Service) fetchFresh(symbol string, period model.Period) *model.FetchResult {
	quote, qerr := s.fetcher.FetchQuote(symbol)
	var bars []model.OHLCV
	var berr error
	if qerr == nil {
		bars, berr = s.fetcher.FetchBars(symbol, period.Days())
	}

	if qerr != nil || berr != nil || len(bars) < 2 {
		if qerr != nil {
			log.Printf("[WARN] quote fetch for %s failed: %v, serving synthetic data", symbol, qerr)
		} else if berr != nil {
			log.Printf("[WARN] history fetch for %s failed: %v, serving synthetic data", symbol, berr)
		} else {
			log.Printf("[WARN] insufficient history for %s (%d bars), serving synthetic data", symbol, len(bars))
		}
		return s.synthetic(symbol, period)
	}

	price := quote.Price
	if price == 0 {
		price = bars[len(bars)-1].Close
	}

	res := &model.FetchResult{
		Symbol:    symbol,
		Period:    period,
		Price:     price,
		Currency:  model.CurrencySymbol(quote.Currency),
		Bars:      bars,
		FetchedAt: time.Now(),
	}
	res.Indicators = computeIndicators(res.Closes())

	s.cache.Put(symbol, period, res)
	s.cache.MarkValid(symbol)
	return res
}

// synthetic builds a fallback result from generated bars. Synthetic results
// are flagged and never cached, so the next lookup retries the upstream.
func (s *Service) synthetic(symbol string, period model.Period) *model.FetchResult {
	bars := GenerateFallbackBars(period)
	res := &model.FetchResult{
		Symbol:    symbol,
		Period:    period,
		Price:     bars[len(bars)-1].Close,
		Currency:  model.CurrencySymbol("INR"),
		Bars:      bars,
		Fallback:  true,
		FetchedAt: time.Now(),
	}
	res.Indicators = computeIndicators(res.Closes())
	return res
}

// Validate performs a cheap existence check for a symbol without fetching
// full history. Results are cached in a namespace separate from full
// fetches.
func (s *Service) Validate(symbol string) bool {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return false
	}
	if s.cache.IsValid(symbol) {
		return true
	}

	quote, err := s.fetcher.FetchQuote(symbol)
	if err != nil || quote.Price <= 0 {
		if err != nil {
			log.Printf("[WARN] validation fetch for %s failed: %v", symbol, err)
		}
		return false
	}

	s.cache.MarkValid(symbol)
	return true
}

// ClearCache purges all cached entries, for operator-triggered resets.
func (s *Service) ClearCache() {
	if err := s.cache.Clear(); err != nil {
		log.Printf("[ERROR] clear cache: %v", err)
	}
}

func computeIndicators(closes []float64) model.IndicatorSnapshot {
	var snap model.IndicatorSnapshot

	if sma, err := indicator.SMA(closes, 20); err == nil {
		snap.SMA20 = &sma
	}
	if sma, err := indicator.SMA(closes, 50); err == nil {
		snap.SMA50 = &sma
	}
	if sma, err := indicator.SMA(closes, 200); err == nil {
		snap.SMA200 = &sma
	}

	rsi, err := indicator.RSI(closes, 14)
	if err != nil {
		log.Printf("[WARN] RSI calculation failed: %v, defaulting to 50", err)
		rsi = 50
	}
	snap.RSI14 = rsi

	if upper, lower, err := indicator.Bollinger(closes, 20, 2); err == nil {
		snap.BollingerUpper = &upper
		snap.BollingerLower = &lower
	}

	return snap
}
