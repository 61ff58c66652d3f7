package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TickerBoard/internal/candle"
	"TickerBoard/internal/collector"
	"TickerBoard/internal/config"
	"TickerBoard/internal/market"
	"TickerBoard/internal/recorder"
	"TickerBoard/internal/scheduler"
	"TickerBoard/internal/simulator"
	"TickerBoard/internal/view"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TickerBoard starting...")

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

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.Source.URL != "" {
		fetcher = collector.NewHTTPFetcher(cfg.Source.URL, cfg.Source.Proxy,
			time.Duration(cfg.Source.TimeoutSeconds)*time.Second)
	} else {
		fetcher = collector.NewFileFetcher(cfg.Source.File)
	}
	log.Printf("[INFO] snapshot source: %s", fetcher.Name())

	// Init collector
	col := collector.NewCollector(fetcher)

	// Init market book
	book := market.NewBook(market.Options{
		TrendMode: market.TrendMode(cfg.Trend.Mode),
		Lookback:  cfg.Trend.Lookback,
		Fallback:  market.BaselineFallback(cfg.Trend.BaselineFallback),
		Candle: candle.Options{
			Spread:   cfg.Candles.Spread,
			Interval: time.Duration(cfg.Candles.StepMinutes) * time.Minute,
			Mode:     candle.SpreadMode(cfg.Candles.Mode),
		},
	})

	// Init projector and renderer
	proj := view.NewProjector(cfg.Watchlist.Categories,
		view.UnknownCategoryPolicy(cfg.Watchlist.UnknownCategories))
	rend := view.NewLogRenderer()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, book, proj, rend, rec)
	if cfg.Simulator.Enabled {
		sched.Sim = simulator.New(cfg.Simulator.Seed, cfg.Simulator.HistoryCap)
		if cfg.Simulator.WriteBack {
			sched.WriteBack = cfg.Source.File
		}
		log.Printf("[INFO] price simulation enabled, every %ds", cfg.Simulator.IntervalSeconds)
	}
	if err := sched.RegisterAll(
		time.Duration(cfg.Refresh.IntervalSeconds)*time.Second,
		time.Duration(cfg.Simulator.IntervalSeconds)*time.Second,
	); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}

	// Initial load before the first tick
	sched.RunRefreshNow()

	sched.Start()
	defer sched.Stop()

	log.Println("[INFO] TickerBoard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TickerBoard stopped")
}
