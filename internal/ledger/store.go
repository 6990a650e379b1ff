package ledger

import (
	"errors"

	"StockDesk/internal/model"
)

// DefaultBalance is the play-money balance seeded for a new user.
const DefaultBalance = 100000.0

var (
	// ErrInsufficientFunds rejects a buy whose total cost exceeds the
	// user's balance. No state is mutated.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrInsufficientShares rejects a sell of more shares than held.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrUnknownUser is returned for operations on a missing user id.
	ErrUnknownUser = errors.New("unknown user")
)

// Store persists the single-user play-money ledger: balance, transaction
// log, derived holdings, and the watchlist.
type Store interface {
	EnsureUser(username string, startingBalance float64) (int64, error)
	GetBalance(userID int64) (float64, error)
	UpdateBalance(userID int64, balance float64) error
	RecordTransaction(userID int64, symbol string, side model.TradeSide, quantity int64, price float64) error
	GetHoldings(userID int64) ([]model.Position, error)
	GetTransactions(userID int64) ([]model.Transaction, error)

	// ExecuteTrade verifies affordability (buy) or share count (sell)
	// and records the transaction plus the balance update as one atomic
	// unit, so a crash cannot leave the two inconsistent.
	ExecuteTrade(userID int64, symbol string, side model.TradeSide, quantity int64, price float64) error

	AddWatch(userID int64, symbol string) error
	RemoveWatch(userID int64, symbol string) error
	Watchlist(userID int64) ([]string, error)

	Close() error
}
