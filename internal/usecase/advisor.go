package usecase

import (
	"context"
	"fmt"
	"time"

	"TrendBack/internal/domain/models"
	domrepo "TrendBack/internal/domain/repository"
	"TrendBack/internal/engine"
	"TrendBack/pkg/config"
	applogger "TrendBack/pkg/logger"
)

// AdvisorUseCase produces the periodic trend advisory: per-instrument band
// state plus a global action list. Per-instrument failures become ERROR rows;
// only a missing benchmark fails the run.
type AdvisorUseCase struct {
	source    domrepo.BarSource
	publisher domrepo.ReportPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger

	period     int
	multiplier float64
	interval   domrepo.Interval
	lookback   time.Duration

	benchmark   string
	gated       []string
	independent []string
	park        string
}

// AdvisorDeps wires the use case. Only Source is mandatory.
type AdvisorDeps struct {
	Source    domrepo.BarSource
	Publisher domrepo.ReportPublisher
	Metrics   domrepo.Metrics
	Logger    *applogger.Logger
}

// AdvisorParams fixes the instrument groups and indicator settings.
type AdvisorParams struct {
	Period      int
	Multiplier  float64
	Interval    domrepo.Interval
	Lookback    time.Duration
	Benchmark   string
	Gated       []string
	Independent []string
	Park        string
}

func NewAdvisorUseCase(d AdvisorDeps, p AdvisorParams) *AdvisorUseCase {
	if p.Lookback <= 0 {
		p.Lookback = config.DefaultLookbackDays * 24 * time.Hour
	}
	return &AdvisorUseCase{
		source:      d.Source,
		publisher:   d.Publisher,
		metrics:     d.Metrics,
		l:           d.Logger,
		period:      p.Period,
		multiplier:  p.Multiplier,
		interval:    p.Interval,
		lookback:    p.Lookback,
		benchmark:   p.Benchmark,
		gated:       p.Gated,
		independent: p.Independent,
		park:        p.Park,
	}
}

// Run builds the advisory report as of now with the configured groups.
func (uc *AdvisorUseCase) Run(ctx context.Context, now time.Time) (*models.AdvisoryReport, error) {
	return uc.RunWith(ctx, now, nil)
}

// RunWith builds the report with an optional override of the gated list.
func (uc *AdvisorUseCase) RunWith(ctx context.Context, now time.Time, gatedOverride []string) (*models.AdvisoryReport, error) {
	if uc.benchmark == "" {
		return nil, fmt.Errorf("benchmark required")
	}
	gated := uc.gated
	if len(gatedOverride) > 0 {
		gated = gatedOverride
	}

	start := time.Now()
	from := now.Add(-uc.lookback)

	benchState, ok, err := uc.trendState(ctx, uc.benchmark, from, now)
	if err != nil || !ok {
		if uc.metrics != nil {
			uc.metrics.RecordError("benchmark_fetch")
		}
		if err == nil {
			err = fmt.Errorf("no bars")
		}
		return nil, fmt.Errorf("benchmark %s: %w", uc.benchmark, err)
	}

	report := &models.AdvisoryReport{
		GeneratedAt: now.UTC(),
		Benchmark:   uc.benchmark,
		Gated:       gated,
		Independent: uc.independent,
		Park:        uc.park,
		Market: models.BenchmarkState{
			LastClose: benchState.LastClose,
			Green:     benchState.Green,
			BandValue: benchState.BandValue,
		},
		Instruments:  make(map[string]models.InstrumentState, len(gated)),
		Independents: make(map[string]models.InstrumentState, len(uc.independent)),
	}

	marketGreen := benchState.Green
	if !marketGreen {
		report.Actions = append(report.Actions, models.ActionEntry{
			Action: models.ActionMarketRed,
			Reason: fmt.Sprintf("%s trend is red; exit gated positions", uc.benchmark),
		})
	}

	for _, sym := range gated {
		st, ok, err := uc.trendState(ctx, sym, from, now)
		if err != nil || !ok {
			report.Instruments[sym] = errorState(err)
			report.Actions = append(report.Actions, models.ActionEntry{
				Ticker: sym,
				Action: models.ActionError,
				Reason: errReason(err),
			})
			if uc.metrics != nil {
				uc.metrics.RecordError("instrument_fetch")
			}
			continue
		}
		report.Instruments[sym] = st
		report.Actions = append(report.Actions, gatedAction(sym, st, marketGreen))
	}

	for _, sym := range uc.independent {
		st, ok, err := uc.trendState(ctx, sym, from, now)
		if err != nil || !ok {
			report.Independents[sym] = errorState(err)
			report.Actions = append(report.Actions, models.ActionEntry{
				Ticker: sym,
				Action: models.ActionError,
				Reason: errReason(err),
			})
			if uc.metrics != nil {
				uc.metrics.RecordError("instrument_fetch")
			}
			continue
		}
		report.Independents[sym] = st
		report.Actions = append(report.Actions, trendAction(sym, st))
	}

	if uc.park != "" {
		action := models.ActionEntry{Ticker: uc.park, Action: models.ActionStandby,
			Reason: "benchmark green; keep funds deployed in gated names"}
		if !marketGreen {
			action.Action = models.ActionPark
			action.Reason = "benchmark red; park freed capital here"
		}
		report.Actions = append(report.Actions, action)
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishReport(ctx, report); err != nil {
			if uc.l != nil {
				uc.l.Error("publish report failed", applogger.Error(err))
			}
			if uc.metrics != nil {
				uc.metrics.RecordError("publish")
			}
		}
	}

	if uc.metrics != nil {
		uc.metrics.RecordLatency("advisory", time.Since(start).Seconds())
	}
	if uc.l != nil {
		uc.l.Info("advisory finished",
			applogger.String("benchmark", uc.benchmark),
			applogger.Bool("market_green", marketGreen),
			applogger.Int("actions", len(report.Actions)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return report, nil
}

// trendState fetches bars and reduces them to the latest band state.
func (uc *AdvisorUseCase) trendState(ctx context.Context, symbol string, from, to time.Time) (models.InstrumentState, bool, error) {
	bars, err := uc.source.FetchBars(ctx, symbol, from, to, uc.interval)
	if err != nil {
		return models.InstrumentState{}, false, err
	}
	if uc.metrics != nil {
		uc.metrics.RecordBarsFetched(symbol, len(bars))
	}

	last, prev, lastClose, ok := engine.LatestTrend(bars, uc.period, uc.multiplier)
	if !ok {
		return models.InstrumentState{}, false, nil
	}
	return models.InstrumentState{
		LastClose: lastClose,
		Green:     last.Bullish,
		PrevGreen: prev.Bullish,
		BandValue: last.Value,
	}, true, nil
}

// gatedAction applies benchmark gating on top of the instrument's own trend.
// A red benchmark exits every gated instrument, whatever its own band says.
func gatedAction(sym string, st models.InstrumentState, marketGreen bool) models.ActionEntry {
	if !marketGreen {
		return models.ActionEntry{Ticker: sym, Action: models.ActionSell,
			Reason: "benchmark red; exit all gated positions"}
	}
	return trendAction(sym, st)
}

// trendAction maps a band state to an advisory action.
func trendAction(sym string, st models.InstrumentState) models.ActionEntry {
	switch {
	case st.Green && !st.PrevGreen:
		return models.ActionEntry{Ticker: sym, Action: models.ActionBuy,
			Reason: "trend flipped green"}
	case !st.Green && st.PrevGreen:
		return models.ActionEntry{Ticker: sym, Action: models.ActionSell,
			Reason: "trend flipped red"}
	case st.Green:
		return models.ActionEntry{Ticker: sym, Action: models.ActionHold,
			Reason: "uptrend intact"}
	default:
		return models.ActionEntry{Ticker: sym, Action: models.ActionHold,
			Reason: "downtrend; stay out"}
	}
}

func errorState(err error) models.InstrumentState {
	return models.InstrumentState{Error: errReason(err)}
}

func errReason(err error) string {
	if err == nil {
		return "no bars"
	}
	return err.Error()
}
