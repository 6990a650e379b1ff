package portfolio

import (
	"errors"
	"fmt"

	"StockDesk/internal/collector"
	"StockDesk/internal/ledger"
	"StockDesk/internal/model"
)

// MarketData is the slice of the collector service the portfolio needs:
// price resolution and symbol validation.
type MarketData interface {
	Fetch(symbol string, period model.Period) *model.FetchResult
	Validate(symbol string) bool
}

// PositionValue is a held position priced at the current market.
type PositionValue struct {
	Position    model.Position
	Price       float64
	MarketValue float64
	ProfitLoss  float64
}

// Valuation is the full portfolio snapshot: cash, priced positions, and
// aggregate profit/loss.
type Valuation struct {
	Balance       float64
	Positions     []PositionValue
	HoldingsValue float64
	TotalAssets   float64
	ProfitLoss    float64
}

// Manager orchestrates trades and valuation for one user against the
// ledger, resolving prices through the market data service.
type Manager struct {
	store  ledger.Store
	market MarketData
	userID int64
}

// NewManager creates a Manager for the given user.
func NewManager(store ledger.Store, market MarketData, userID int64) *Manager {
	return &Manager{store: store, market: market, userID: userID}
}

// resolvePrice looks up the current market price for a symbol and returns
// the normalized symbol alongside it.
func (m *Manager) resolvePrice(symbol string) (string, float64, error) {
	res := m.market.Fetch(symbol, model.Period1Mo)
	if res == nil || res.Price <= 0 {
		return "", 0, fmt.Errorf("no price available for %s", symbol)
	}
	return res.Symbol, res.Price, nil
}

// Buy purchases quantity shares at the current market price. The ledger
// rejects unaffordable orders without mutating state.
func (m *Manager) Buy(symbol string, quantity int64) (float64, error) {
	sym, price, err := m.resolvePrice(symbol)
	if err != nil {
		return 0, err
	}
	if err := m.store.ExecuteTrade(m.userID, sym, model.SideBuy, quantity, price); err != nil {
		return 0, err
	}
	return price, nil
}

// Sell liquidates quantity shares at the current market price. The ledger
// rejects sells exceeding the held share count.
func (m *Manager) Sell(symbol string, quantity int64) (float64, error) {
	sym, price, err := m.resolvePrice(symbol)
	if err != nil {
		return 0, err
	}
	if err := m.store.ExecuteTrade(m.userID, sym, model.SideSell, quantity, price); err != nil {
		return 0, err
	}
	return price, nil
}

// Balance returns the user's current cash balance.
func (m *Manager) Balance() (float64, error) {
	return m.store.GetBalance(m.userID)
}

// Transactions returns the user's trade log, newest first.
func (m *Manager) Transactions() ([]model.Transaction, error) {
	return m.store.GetTransactions(m.userID)
}

// Valuation prices every held position at the current market and aggregates
// cash, market value, and unrealised profit/loss.
func (m *Manager) Valuation() (*Valuation, error) {
	balance, err := m.store.GetBalance(m.userID)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}
	holdings, err := m.store.GetHoldings(m.userID)
	if err != nil {
		return nil, fmt.Errorf("read holdings: %w", err)
	}

	v := &Valuation{Balance: balance}
	for _, p := range holdings {
		res := m.market.Fetch(p.Symbol, model.Period1Mo)
		if res == nil {
			continue
		}
		pv := PositionValue{
			Position:    p,
			Price:       res.Price,
			MarketValue: float64(p.Shares) * res.Price,
		}
		pv.ProfitLoss = pv.MarketValue - p.CostBasis
		v.Positions = append(v.Positions, pv)
		v.HoldingsValue += pv.MarketValue
		v.ProfitLoss += pv.ProfitLoss
	}
	v.TotalAssets = v.Balance + v.HoldingsValue
	return v, nil
}

// Watch validates the symbol against the market and adds it to the user's
// watchlist.
func (m *Manager) Watch(symbol string) error {
	sym := collector.NormalizeSymbol(symbol)
	if !m.market.Validate(sym) {
		return errors.New("symbol not found")
	}
	return m.store.AddWatch(m.userID, sym)
}

// Unwatch removes a symbol from the watchlist.
func (m *Manager) Unwatch(symbol string) error {
	return m.store.RemoveWatch(m.userID, collector.NormalizeSymbol(symbol))
}

// Watchlist returns the watched symbols.
func (m *Manager) Watchlist() ([]string, error) {
	return m.store.Watchlist(m.userID)
}
