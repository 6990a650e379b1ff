package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StockDesk/internal/cache"
	"StockDesk/internal/collector"
	"StockDesk/internal/config"
	"StockDesk/internal/ledger"
	"StockDesk/internal/portfolio"
	"StockDesk/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockDesk starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init cache
	dataCache, err := cache.New(cfg.Cache.Dir)
	if err != nil {
		log.Fatalf("[FATAL] init cache: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRestFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	market := collector.NewService(fetcher, dataCache)

	// Operator-triggered cache reset, e.g. after a schema change.
	if os.Getenv("CLEAR_CACHE") == "true" {
		log.Println("[INFO] CLEAR_CACHE enabled, purging cached market data")
		market.ClearCache()
	}

	// Init ledger; fall back to a session-scoped memory store when SQLite
	// is unavailable.
	var store ledger.Store
	if sqlStore, err := ledger.NewSQLiteStore(cfg.Database.SQLitePath); err != nil {
		log.Printf("[WARN] init sqlite ledger failed, using memory store: %v", err)
		store = ledger.NewMemoryStore()
	} else {
		store = sqlStore
	}
	defer store.Close()

	userID, err := store.EnsureUser(cfg.User.Name, cfg.User.StartingBalance)
	if err != nil {
		log.Fatalf("[FATAL] bootstrap user: %v", err)
	}

	pm := portfolio.NewManager(store, market, userID)

	// Seed the watchlist from config.
	for _, symbol := range cfg.Symbols {
		if err := store.AddWatch(userID, collector.NormalizeSymbol(symbol)); err != nil {
			log.Printf("[WARN] seed watchlist %s: %v", symbol, err)
		}
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, market, pm)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register refresh task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing watchlist now")
		go sched.RunRefreshNow()
	}

	log.Println("[INFO] StockDesk is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] StockDesk stopped")
}
