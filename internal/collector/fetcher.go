package collector

import (
	"strings"

	"StockDesk/internal/model"
)

// DefaultSuffix is the exchange suffix appended to bare symbols.
const DefaultSuffix = ".NS"

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchBars(symbol string, days int) ([]model.OHLCV, error)
	FetchQuote(symbol string) (*model.Quote, error)
	Name() string
}

// NormalizeSymbol uppercases the symbol and appends the default exchange
// suffix when no recognized suffix is present. Index symbols (^ prefix) are
// left alone.
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" || strings.HasPrefix(s, "^") {
		return s
	}
	if strings.HasSuffix(s, ".NS") || strings.HasSuffix(s, ".BO") {
		return s
	}
	return s + DefaultSuffix
}
