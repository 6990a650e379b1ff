package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"StockDesk/internal/model"
)

// SQLiteStore persists the ledger to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// Ensure SQLiteStore implements the Store interface.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] ledger opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user (
			user_id  INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			balance  REAL NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS stock_transactions (
			transaction_id   TEXT PRIMARY KEY,
			user_id          INTEGER NOT NULL,
			stock_ticker     TEXT NOT NULL,
			action           TEXT NOT NULL,
			quantity         INTEGER NOT NULL,
			price            REAL NOT NULL,
			transaction_date INTEGER NOT NULL,
			FOREIGN KEY (user_id) REFERENCES user(user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_user ON stock_transactions(user_id, transaction_date)`,

		`CREATE TABLE IF NOT EXISTS watchlist (
			watchlist_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id      INTEGER NOT NULL,
			stock_ticker TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES user(user_id),
			UNIQUE(user_id, stock_ticker)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// EnsureUser returns the id for the named user, creating the row with the
// starting balance if it does not exist.
func (s *SQLiteStore) EnsureUser(username string, startingBalance float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.db.QueryRow(`SELECT user_id FROM user WHERE username = ?`, username).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup user: %w", err)
	}

	res, err := s.db.Exec(`INSERT INTO user (username, balance) VALUES (?, ?)`, username, startingBalance)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) GetBalance(userID int64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var balance float64
	err := s.db.QueryRow(`SELECT balance FROM user WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUnknownUser
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

func (s *SQLiteStore) UpdateBalance(userID int64, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE user SET balance = ? WHERE user_id = ?`, balance, userID)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnknownUser
	}
	return nil
}

func (s *SQLiteStore) RecordTransaction(userID int64, symbol string, side model.TradeSide, quantity int64, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO stock_transactions (transaction_id, user_id, stock_ticker, action, quantity, price, transaction_date)
		 VALUES (?,?,?,?,?,?,?)`,
		uuid.NewString(), userID, symbol, string(side), quantity, price, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

const holdingsQuery = `
	SELECT stock_ticker,
	       SUM(CASE WHEN action = 'buy' THEN quantity ELSE -quantity END) AS shares,
	       SUM(CASE WHEN action = 'buy' THEN quantity * price ELSE -quantity * price END) AS cost_basis
	FROM stock_transactions
	WHERE user_id = ?
	GROUP BY stock_ticker
	HAVING shares > 0`

// GetHoldings aggregates net positions from the signed transaction history.
func (s *SQLiteStore) GetHoldings(userID int64) ([]model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(holdingsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	var positions []model.Position
	for rows.Next() {
		var p model.Position
		if err := rows.Scan(&p.Symbol, &p.Shares, &p.CostBasis); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// GetTransactions returns the user's transaction log, newest first.
func (s *SQLiteStore) GetTransactions(userID int64) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT transaction_id, user_id, stock_ticker, action, quantity, price, transaction_date
		 FROM stock_transactions WHERE user_id = ? ORDER BY transaction_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var side string
		var ts int64
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &side, &t.Quantity, &t.Price, &ts); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Side = model.TradeSide(side)
		t.Date = time.Unix(ts, 0)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// ExecuteTrade checks affordability or share count against the current
// snapshot, then records the transaction row and the balance update inside
// a single database transaction. A rejected trade mutates nothing.
func (s *SQLiteStore) ExecuteTrade(userID int64, symbol string, side model.TradeSide, quantity int64, price float64) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if side != model.SideBuy && side != model.SideSell {
		return fmt.Errorf("unknown trade side %q", side)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin trade: %w", err)
	}
	defer tx.Rollback()

	var balance float64
	err = tx.QueryRow(`SELECT balance FROM user WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownUser
	}
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}

	total := float64(quantity) * price
	var newBalance float64
	switch side {
	case model.SideBuy:
		if total > balance {
			return ErrInsufficientFunds
		}
		newBalance = balance - total
	case model.SideSell:
		var shares sql.NullInt64
		err = tx.QueryRow(
			`SELECT SUM(CASE WHEN action = 'buy' THEN quantity ELSE -quantity END)
			 FROM stock_transactions WHERE user_id = ? AND stock_ticker = ?`,
			userID, symbol).Scan(&shares)
		if err != nil {
			return fmt.Errorf("read shares: %w", err)
		}
		if shares.Int64 < quantity {
			return ErrInsufficientShares
		}
		newBalance = balance + total
	}

	if _, err := tx.Exec(
		`INSERT INTO stock_transactions (transaction_id, user_id, stock_ticker, action, quantity, price, transaction_date)
		 VALUES (?,?,?,?,?,?,?)`,
		uuid.NewString(), userID, symbol, string(side), quantity, price, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("record trade: %w", err)
	}
	if _, err := tx.Exec(`UPDATE user SET balance = ? WHERE user_id = ?`, newBalance, userID); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddWatch(userID int64, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO watchlist (user_id, stock_ticker) VALUES (?, ?)`, userID, symbol)
	if err != nil {
		return fmt.Errorf("add watch: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveWatch(userID int64, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`DELETE FROM watchlist WHERE user_id = ? AND stock_ticker = ?`, userID, symbol)
	if err != nil {
		return fmt.Errorf("remove watch: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Watchlist(userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT stock_ticker FROM watchlist WHERE user_id = ? ORDER BY stock_ticker`, userID)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan watchlist: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing ledger")
	return s.db.Close()
}
