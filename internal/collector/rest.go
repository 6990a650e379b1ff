package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"StockDesk/internal/model"
)

// RestFetcher implements Fetcher against a self-hosted quote-server REST
// API. Any provider exposing the bars/quote endpoints can be substituted
// for the public source.
type RestFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRestFetcher creates a new fetcher with optional proxy support.
func NewRestFetcher(baseURL, apiKey, proxyURL string) *RestFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RestFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RestFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the quote-server API.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *RestFetcher) do(endpoint string) ([]byte, error) {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote server fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("quote server read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote server: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// FetchBars retrieves up to `days` daily bars for the symbol.
func (f *RestFetcher) FetchBars(symbol string, days int) ([]model.OHLCV, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), days)
	body, err := f.do(endpoint)
	if err != nil {
		return nil, err
	}

	var raw []restBar
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("quote server decode: %w", err)
	}

	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		if b.Close == 0 {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(b.Timestamp, 0),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// FetchQuote retrieves the latest price and currency for the symbol.
func (f *RestFetcher) FetchQuote(symbol string) (*model.Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	body, err := f.do(endpoint)
	if err != nil {
		return nil, err
	}

	price := gjson.GetBytes(body, "price").Float()
	if price == 0 {
		return nil, fmt.Errorf("quote server: no price for %s", symbol)
	}
	currency := gjson.GetBytes(body, "currency").String()
	if currency == "" {
		currency = "INR"
	}
	return &model.Quote{Price: price, Currency: currency}, nil
}
