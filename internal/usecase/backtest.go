package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"TrendBack/internal/domain/models"
	domrepo "TrendBack/internal/domain/repository"
	"TrendBack/internal/engine"
	applogger "TrendBack/pkg/logger"
)

// BacktestUseCase fetches history, replays the strategy, and persists the
// resulting trade log.
type BacktestUseCase struct {
	source    domrepo.BarSource
	bars      domrepo.BarStore   // optional
	trades    domrepo.TradeStore // optional
	publisher domrepo.ReportPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger

	cfg       engine.Config
	interval  domrepo.Interval
	benchmark string
	universe  []string // tradeable symbols in scan order
}

// BacktestDeps wires the use case. Only Source is mandatory; nil stores and
// publishers degrade to an in-memory run.
type BacktestDeps struct {
	Source    domrepo.BarSource
	Bars      domrepo.BarStore
	Trades    domrepo.TradeStore
	Publisher domrepo.ReportPublisher
	Metrics   domrepo.Metrics
	Logger    *applogger.Logger
}

func NewBacktestUseCase(d BacktestDeps, cfg engine.Config, interval domrepo.Interval, benchmark string, universe []string) *BacktestUseCase {
	return &BacktestUseCase{
		source:    d.Source,
		bars:      d.Bars,
		trades:    d.Trades,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		l:         d.Logger,
		cfg:       cfg,
		interval:  interval,
		benchmark: benchmark,
		universe:  universe,
	}
}

// Benchmark returns the configured benchmark ticker.
func (uc *BacktestUseCase) Benchmark() string { return uc.benchmark }

type RunBacktestParams struct {
	Benchmark string
	From      time.Time
	To        time.Time
	Policy    engine.Policy
}

// Run executes one full backtest. A missing benchmark is fatal; a missing
// instrument is excluded from the run and noted in SkipNotes.
func (uc *BacktestUseCase) Run(ctx context.Context, p RunBacktestParams) (*models.SimulationResult, error) {
	if p.Benchmark == "" {
		p.Benchmark = uc.benchmark
	}
	if p.Benchmark == "" {
		return nil, fmt.Errorf("benchmark required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Policy == "" {
		p.Policy = uc.cfg.Policy
	}

	start := time.Now()
	benchmark, err := uc.fetch(ctx, p.Benchmark, p.From, p.To)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordError("benchmark_fetch")
		}
		return nil, fmt.Errorf("benchmark %s: %w", p.Benchmark, err)
	}

	instruments := make(map[string]models.BarSeries, len(uc.universe))
	order := make([]string, 0, len(uc.universe))
	skips := make(map[string]string)
	for _, sym := range uc.universe {
		series, err := uc.fetch(ctx, sym, p.From, p.To)
		if err != nil {
			skips[sym] = err.Error()
			if uc.l != nil {
				uc.l.Warn("instrument excluded from run",
					applogger.String("symbol", sym),
					applogger.Error(err),
				)
			}
			if uc.metrics != nil {
				uc.metrics.RecordError("instrument_fetch")
			}
			continue
		}
		instruments[sym] = series
		order = append(order, sym)
	}

	cfg := uc.cfg
	cfg.Policy = p.Policy
	res, err := engine.NewSimulator(cfg).Run(benchmark, instruments, order)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	res.RunID = uuid.NewString()
	if len(skips) > 0 {
		res.SkipNotes = skips
	}

	if uc.metrics != nil {
		for _, t := range res.Trades {
			uc.metrics.RecordTrade(string(t.Outcome))
		}
		uc.metrics.RecordCapital(res.Summary.FinalCapital)
		uc.metrics.RecordLatency("backtest", time.Since(start).Seconds())
	}

	if uc.trades != nil {
		if err := uc.trades.StoreRun(ctx, res); err != nil {
			if uc.l != nil {
				uc.l.Error("store run failed",
					applogger.String("run_id", res.RunID),
					applogger.Error(err),
				)
			}
			if uc.metrics != nil {
				uc.metrics.RecordError("trade_store")
			}
		}
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishResult(ctx, res); err != nil {
			if uc.l != nil {
				uc.l.Error("publish result failed",
					applogger.String("run_id", res.RunID),
					applogger.Error(err),
				)
			}
			if uc.metrics != nil {
				uc.metrics.RecordError("publish")
			}
		}
	}

	if uc.l != nil {
		uc.l.Info("backtest finished",
			applogger.String("run_id", res.RunID),
			applogger.String("policy", string(p.Policy)),
			applogger.Int("trades", res.Summary.Trades),
			applogger.Float64("final_capital", res.Summary.FinalCapital),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return res, nil
}

// fetch pulls bars and persists them best-effort for replay.
func (uc *BacktestUseCase) fetch(ctx context.Context, symbol string, from, to time.Time) (models.BarSeries, error) {
	series, err := uc.source.FetchBars(ctx, symbol, from, to, uc.interval)
	if err != nil {
		return nil, err
	}
	if uc.metrics != nil {
		uc.metrics.RecordBarsFetched(symbol, len(series))
	}
	if uc.bars != nil {
		if err := uc.bars.StoreBars(ctx, series, uc.interval); err != nil && uc.l != nil {
			uc.l.Warn("store bars failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}
	return series, nil
}

// TradesUseCase serves persisted trade logs.
type TradesUseCase struct {
	store domrepo.TradeStore
}

func NewTradesUseCase(store domrepo.TradeStore) *TradesUseCase {
	return &TradesUseCase{store: store}
}

type GetTradesParams struct {
	RunID  string
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

func (uc *TradesUseCase) GetTrades(ctx context.Context, p GetTradesParams) ([]models.TradeRecord, error) {
	if uc.store == nil {
		return nil, fmt.Errorf("trade store not configured")
	}
	if p.Limit <= 0 {
		p.Limit = 500
	}
	if p.Limit > 10000 {
		p.Limit = 10000
	}
	trades, err := uc.store.QueryTrades(ctx, p.RunID, p.Symbol, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	return trades, nil
}
