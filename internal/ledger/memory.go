package ledger

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"StockDesk/internal/model"
)

// MemoryStore is a map-backed Store used when SQLite cannot be opened, so
// the application keeps working with a session-scoped ledger.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[string]int64
	balances map[int64]float64
	txs      []model.Transaction
	watch    map[int64]map[string]bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		users:    make(map[string]int64),
		balances: make(map[int64]float64),
		watch:    make(map[int64]map[string]bool),
	}
}

func (s *MemoryStore) EnsureUser(username string, startingBalance float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.users[username]; ok {
		return id, nil
	}
	id := s.nextID
	s.nextID++
	s.users[username] = id
	s.balances[id] = startingBalance
	return id, nil
}

func (s *MemoryStore) GetBalance(userID int64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, ok := s.balances[userID]
	if !ok {
		return 0, ErrUnknownUser
	}
	return balance, nil
}

func (s *MemoryStore) UpdateBalance(userID int64, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.balances[userID]; !ok {
		return ErrUnknownUser
	}
	s.balances[userID] = balance
	return nil
}

func (s *MemoryStore) RecordTransaction(userID int64, symbol string, side model.TradeSide, quantity int64, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(userID, symbol, side, quantity, price)
	return nil
}

// record appends a transaction row. Caller holds the lock.
func (s *MemoryStore) record(userID int64, symbol string, side model.TradeSide, quantity int64, price float64) {
	s.txs = append(s.txs, model.Transaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Price:    price,
		Date:     time.Now(),
	})
}

// shares returns the net share count for one symbol. Caller holds the lock.
func (s *MemoryStore) shares(userID int64, symbol string) int64 {
	var n int64
	for _, t := range s.txs {
		if t.UserID != userID || t.Symbol != symbol {
			continue
		}
		if t.Side == model.SideBuy {
			n += t.Quantity
		} else {
			n -= t.Quantity
		}
	}
	return n
}

func (s *MemoryStore) GetHoldings(userID int64) ([]model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bySymbol := make(map[string]*model.Position)
	for _, t := range s.txs {
		if t.UserID != userID {
			continue
		}
		p, ok := bySymbol[t.Symbol]
		if !ok {
			p = &model.Position{Symbol: t.Symbol}
			bySymbol[t.Symbol] = p
		}
		if t.Side == model.SideBuy {
			p.Shares += t.Quantity
			p.CostBasis += float64(t.Quantity) * t.Price
		} else {
			p.Shares -= t.Quantity
			p.CostBasis -= float64(t.Quantity) * t.Price
		}
	}

	var positions []model.Position
	for _, p := range bySymbol {
		if p.Shares > 0 {
			positions = append(positions, *p)
		}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })
	return positions, nil
}

func (s *MemoryStore) GetTransactions(userID int64) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []model.Transaction
	for i := len(s.txs) - 1; i >= 0; i-- {
		if s.txs[i].UserID == userID {
			txs = append(txs, s.txs[i])
		}
	}
	return txs, nil
}

func (s *MemoryStore) ExecuteTrade(userID int64, symbol string, side model.TradeSide, quantity int64, price float64) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance, ok := s.balances[userID]
	if !ok {
		return ErrUnknownUser
	}

	total := float64(quantity) * price
	switch side {
	case model.SideBuy:
		if total > balance {
			return ErrInsufficientFunds
		}
		s.balances[userID] = balance - total
	case model.SideSell:
		if s.shares(userID, symbol) < quantity {
			return ErrInsufficientShares
		}
		s.balances[userID] = balance + total
	default:
		return fmt.Errorf("unknown trade side %q", side)
	}

	s.record(userID, symbol, side, quantity, price)
	return nil
}

func (s *MemoryStore) AddWatch(userID int64, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watch[userID] == nil {
		s.watch[userID] = make(map[string]bool)
	}
	s.watch[userID][symbol] = true
	return nil
}

func (s *MemoryStore) RemoveWatch(userID int64, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watch[userID], symbol)
	return nil
}

func (s *MemoryStore) Watchlist(userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var symbols []string
	for sym := range s.watch[userID] {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (s *MemoryStore) Close() error { return nil }
