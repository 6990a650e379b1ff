package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"StockDesk/internal/collector"
	"StockDesk/internal/model"
	"StockDesk/internal/portfolio"
	"StockDesk/internal/report"
	"StockDesk/internal/strategy"
)

// refreshPeriod is the lookback used for background refreshes. A year of
// history keeps the longer moving averages defined for the trend signal.
const refreshPeriod = model.Period1Y

// Scheduler periodically refreshes market data for the watchlist and logs
// the resulting recommendations and portfolio valuation.
type Scheduler struct {
	Cron      *cron.Cron
	Market    *collector.Service
	Portfolio *portfolio.Manager
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, market *collector.Service, pm *portfolio.Manager) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Market:    market,
		Portfolio: pm,
		Ctx:       ctx,
	}
}

// Register registers the periodic refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (for manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	if s.Ctx.Err() != nil {
		return
	}
	log.Println("[INFO] refreshing watchlist")

	symbols, err := s.Portfolio.Watchlist()
	if err != nil {
		log.Printf("[ERROR] read watchlist: %v", err)
		return
	}

	for _, symbol := range symbols {
		res := s.Market.Fetch(symbol, refreshPeriod)
		if res == nil {
			log.Printf("[WARN] no data for %s", symbol)
			continue
		}
		if res.Fallback {
			log.Printf("[WARN] serving synthetic data for %s", symbol)
		}
		log.Printf("[INFO] %s", report.FormatQuote(res))

		rec := strategy.Evaluate(res)
		log.Printf("[INFO] %s", report.FormatRecommendation(rec))
	}

	valuation, err := s.Portfolio.Valuation()
	if err != nil {
		log.Printf("[ERROR] portfolio valuation: %v", err)
		return
	}
	log.Printf("[INFO] portfolio:\n%s", report.FormatPortfolio(valuation))
}
