package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"TrendBack/internal/di"
	"TrendBack/pkg/config"
	"TrendBack/pkg/util"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	mode := flag.String("mode", "advise", "run mode: advise | backtest | serve")
	from := flag.String("from", "", "backtest start date (YYYY-MM-DD, default one year ago)")
	to := flag.String("to", "", "backtest end date (YYYY-MM-DD, default today)")
	policy := flag.String("policy", "", "trade resolution policy override: conservative | stepladder")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s benchmark=%s interval=%s", cfg.Environment, cfg.Instruments.Benchmark, cfg.Data.Interval)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	ctx := context.Background()
	switch *mode {
	case "advise":
		err = app.RunAdvisory(ctx)
	case "backtest":
		now := time.Now()
		f := util.ParseTimeDefault(*from, now.AddDate(-1, 0, 0))
		t := util.ParseTimeDefault(*to, now)
		err = app.RunBacktest(ctx, f, t, *policy)
	case "serve":
		err = app.Serve()
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
