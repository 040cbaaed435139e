package engine

import (
	"fmt"
	"math"

	"TrendBack/internal/domain/models"
)

// Config is the full, immutable parameter set of a simulation run.
type Config struct {
	Capital      float64 // starting capital
	MonthlyTopUp float64 // injected on every calendar-month rollover
	Leverage     float64 // position sizing multiplier on available capital
	BufferPct    float64 // breakout trigger buffer, fraction of prior close
	TickSize     float64 // exchange price increment
	Policy       Policy
	Exits        ExitLevels
	Costs        CostConfig
}

// Simulator replays the strategy day by day over historical bars. It owns no
// I/O and uses no clock or randomness: identical inputs reproduce an
// identical trade log bit for bit.
type Simulator struct {
	cfg Config
}

func NewSimulator(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Run iterates the benchmark's trading days in ascending order, starting from
// the second day (the first has no prior bar to derive triggers from). Each
// day it classifies the regime, ranks candidates across instruments in the
// given scan order, confirms the selected trigger against the day's range,
// resolves the outcome, and updates capital net of transaction costs.
//
// Per-instrument, per-day problems are skips, never aborts; only a missing
// benchmark fails the run.
func (s *Simulator) Run(benchmark models.BarSeries, instruments map[string]models.BarSeries, order []string) (*models.SimulationResult, error) {
	if len(benchmark) < 2 {
		return nil, fmt.Errorf("benchmark series: %w", ErrDataUnavailable)
	}

	indexes := make(map[string]map[int64]int, len(instruments))
	for sym, series := range instruments {
		indexes[sym] = series.TimeIndex()
	}

	capital := s.cfg.Capital
	var injected float64
	var trades []models.TradeRecord
	var summary models.SimulationSummary
	summary.StartCapital = s.cfg.Capital

	rcfg := RankerConfig{BufferPct: s.cfg.BufferPct, TickSize: s.cfg.TickSize}

	for i := 1; i < len(benchmark); i++ {
		day := benchmark[i]

		// Monthly capital injection keyed to calendar-month rollover.
		py, pm, _ := benchmark[i-1].Time.Date()
		cy, cm, _ := day.Time.Date()
		if s.cfg.MonthlyTopUp > 0 && (cy != py || cm != pm) {
			capital += s.cfg.MonthlyTopUp
			injected += s.cfg.MonthlyTopUp
		}

		regime, ok := DayRegime(benchmark, i)
		if !ok {
			continue // benchmark gap or NaN suppresses trading system-wide
		}

		var cands []Candidate
		for _, sym := range order {
			series := instruments[sym]
			idx := indexes[sym]
			ti, ok := idx[day.Time.Unix()]
			if !ok || ti == 0 {
				continue // no bar today, or no prior bar
			}
			if c, ok := EvaluateCandidate(sym, series[ti-1], series[ti], regime, rcfg); ok {
				cands = append(cands, c)
			}
		}

		best, ok := BestCandidate(cands)
		if !ok {
			continue
		}

		today := instruments[best.Symbol][indexes[best.Symbol][day.Time.Unix()]]
		if !Triggered(best.Direction, best.Trigger, today) {
			continue // candidate selected but the breakout never printed
		}

		entry := best.Trigger
		qty := int64(math.Floor(capital * s.cfg.Leverage / entry))
		if qty <= 0 {
			continue
		}

		outcome, exit := ResolveOutcome(s.cfg.Policy, best.Direction, entry, today, s.cfg.Exits)

		gross := (exit - entry) * float64(qty) * best.Direction.Sign()
		buyTurnover := entry * float64(qty)
		sellTurnover := exit * float64(qty)
		if best.Direction == models.Short {
			buyTurnover, sellTurnover = sellTurnover, buyTurnover
		}
		charges := s.cfg.Costs.Charges(buyTurnover, sellTurnover)
		net := gross - charges
		capital += net

		trades = append(trades, models.TradeRecord{
			Date:      day.Time,
			Symbol:    best.Symbol,
			Direction: best.Direction,
			Outcome:   outcome,
			Entry:     entry,
			Exit:      exit,
			Quantity:  qty,
			Charges:   charges,
			NetPnL:    net,
			Capital:   capital,
		})

		switch outcome {
		case models.OutcomeWin:
			summary.Wins++
		case models.OutcomeLoss:
			summary.Losses++
		case models.OutcomeBreakeven:
			summary.Breakevens++
		case models.OutcomePartial:
			summary.Partials++
		case models.OutcomeEODClose:
			summary.EODCloses++
		}
	}

	summary.Trades = len(trades)
	summary.TotalInjected = injected
	summary.FinalCapital = capital
	contributed := s.cfg.Capital + injected
	if contributed > 0 {
		summary.ReturnPct = (capital - contributed) / contributed * 100
	}

	return &models.SimulationResult{
		Policy:  string(s.cfg.Policy),
		From:    benchmark[1].Time,
		To:      benchmark[len(benchmark)-1].Time,
		Trades:  trades,
		Summary: summary,
	}, nil
}
