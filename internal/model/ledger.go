package model

import "time"

// TradeSide indicates the direction of a transaction.
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// Position aggregates a user's net holding in one symbol from the signed
// transaction history.
type Position struct {
	Symbol    string
	Shares    int64
	CostBasis float64
}

// Transaction is a single recorded buy or sell.
type Transaction struct {
	ID       string
	UserID   int64
	Symbol   string
	Side     TradeSide
	Quantity int64
	Price    float64
	Date     time.Time
}
