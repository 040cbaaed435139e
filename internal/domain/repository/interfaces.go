package repository

import (
	"context"
	"time"

	"TrendBack/internal/domain/models"
)

// BarSource delivers historical bars for one instrument, ascending by time.
// A missing instrument returns an error; the caller decides whether that is
// fatal (benchmark) or a per-instrument skip.
type BarSource interface {
	FetchBars(ctx context.Context, symbol string, from, to time.Time, iv Interval) (models.BarSeries, error)
}

// BarStore persists fetched bars so a run can be replayed without refetching.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBars(ctx context.Context, bars models.BarSeries, iv Interval) error
	Health(ctx context.Context) error
	Close() error
}

// TradeStore persists and queries simulation trade logs.
type TradeStore interface {
	Init(ctx context.Context) error
	StoreRun(ctx context.Context, res *models.SimulationResult) error
	QueryTrades(ctx context.Context, runID, symbol string, from, to time.Time, limit int) ([]models.TradeRecord, error)
	Health(ctx context.Context) error
	Close() error
}

// ReportPublisher delivers reports and results to an external sink.
type ReportPublisher interface {
	PublishReport(ctx context.Context, r *models.AdvisoryReport) error
	PublishResult(ctx context.Context, res *models.SimulationResult) error
	Close() error
}

// Metrics records operational counters for a run.
type Metrics interface {
	RecordBarsFetched(symbol string, n int)
	RecordTrade(outcome string)
	RecordCapital(value float64)
	RecordLatency(op string, seconds float64)
	RecordError(kind string)
}
