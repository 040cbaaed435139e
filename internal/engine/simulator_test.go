package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"TrendBack/internal/domain/models"
)

func simConfig() Config {
	return Config{
		Capital:      100000,
		MonthlyTopUp: 5000,
		Leverage:     5,
		BufferPct:    0.001,
		TickSize:     0.05,
		Policy:       PolicyConservative,
		Exits:        testExits,
		Costs:        testCosts,
	}
}

// simFixture builds a four-day benchmark spanning a month rollover and one
// instrument that trades once: a BUY breakout on day 2 that runs to target.
// Day 3 has no signal and day 4 selects a candidate whose trigger never
// prints.
func simFixture() (models.BarSeries, map[string]models.BarSeries, []string) {
	d := []time.Time{
		day(2024, time.January, 30),
		day(2024, time.January, 31),
		day(2024, time.February, 1),
		day(2024, time.February, 2),
	}
	bench := models.BarSeries{
		bar(d[0], 100.3, 101, 99.5, 100),
		bar(d[1], 100.3, 101, 99.5, 100),
		bar(d[2], 100.3, 101, 99.5, 100),
		bar(d[3], 100.3, 101, 99.5, 100),
	}
	acme := models.BarSeries{
		bar(d[0], 100, 110, 100, 109),        // top-quartile close: BUY setup for day 2
		bar(d[1], 110.10, 111.5, 110, 110.5), // opens at the trigger, runs to target
		bar(d[2], 109, 110, 100, 109.5),      // mid-day bar; no signal for day 3, BUY setup for day 4
		bar(d[3], 110, 110.05, 109, 109.5),   // high stays under the trigger: no trade
	}
	return bench, map[string]models.BarSeries{"ACME": acme}, []string{"ACME"}
}

func TestSimulatorRun(t *testing.T) {
	bench, instruments, order := simFixture()
	res, err := NewSimulator(simConfig()).Run(bench, instruments, order)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(res.Trades) != 1 {
		t.Fatalf("expected exactly 1 trade, got %d", len(res.Trades))
	}
	tr := res.Trades[0]
	if tr.Symbol != "ACME" || tr.Direction != models.Long {
		t.Fatalf("unexpected trade %+v", tr)
	}
	// open sat exactly on the trigger: entry is the trigger price
	if !almost(tr.Entry, 110.10) {
		t.Fatalf("entry = %v, want the 110.10 trigger", tr.Entry)
	}
	if tr.Outcome != models.OutcomeWin {
		t.Fatalf("outcome = %v, want WIN", tr.Outcome)
	}
	if res.Summary.Wins != 1 || res.Summary.Trades != 1 {
		t.Fatalf("summary counts wrong: %+v", res.Summary)
	}
	// one month rollover (Jan -> Feb)
	if res.Summary.TotalInjected != 5000 {
		t.Fatalf("injected = %v, want 5000", res.Summary.TotalInjected)
	}
}

func TestSimulatorCapitalConservation(t *testing.T) {
	bench, instruments, order := simFixture()
	cfg := simConfig()
	res, err := NewSimulator(cfg).Run(bench, instruments, order)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var pnl float64
	for _, tr := range res.Trades {
		pnl += tr.NetPnL
	}
	want := cfg.Capital + res.Summary.TotalInjected + pnl
	if math.Abs(res.Summary.FinalCapital-want) > 1e-6 {
		t.Fatalf("final capital %v, want %v", res.Summary.FinalCapital, want)
	}
}

func TestSimulatorDeterminism(t *testing.T) {
	bench, instruments, order := simFixture()
	sim := NewSimulator(simConfig())
	a, err := sim.Run(bench, instruments, order)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := sim.Run(bench, instruments, order)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different results")
	}
}

func TestSimulatorBenchmarkNaNDaySkipped(t *testing.T) {
	bench, instruments, order := simFixture()
	bench[1].Open = math.NaN() // the would-be trade day
	res, err := NewSimulator(simConfig()).Run(bench, instruments, order)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Trades) != 0 {
		t.Fatalf("NaN benchmark day must suppress trading, got %d trades", len(res.Trades))
	}
}

func TestSimulatorMissingBenchmarkFatal(t *testing.T) {
	_, instruments, order := simFixture()
	_, err := NewSimulator(simConfig()).Run(nil, instruments, order)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestSimulatorInstrumentGapTolerated(t *testing.T) {
	bench, instruments, order := simFixture()
	// drop the instrument's bar on the trade day: candidate scan skips it
	instruments["ACME"] = append(models.BarSeries{}, instruments["ACME"][0], instruments["ACME"][2], instruments["ACME"][3])
	res, err := NewSimulator(simConfig()).Run(bench, instruments, order)
	if err != nil {
		t.Fatalf("gap must not abort the run: %v", err)
	}
	if len(res.Trades) != 0 {
		t.Fatalf("no aligned bars should mean no trades, got %d", len(res.Trades))
	}
}
