package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"TrendBack/internal/domain/models"
	domrepo "TrendBack/internal/domain/repository"
	"TrendBack/pkg/config"
)

// fakeSource serves canned series per symbol and records fetch order.
type fakeSource struct {
	series  map[string]models.BarSeries
	fetched []string
	froms   []time.Time
}

func (f *fakeSource) FetchBars(_ context.Context, symbol string, from, _ time.Time, _ domrepo.Interval) (models.BarSeries, error) {
	f.fetched = append(f.fetched, symbol)
	f.froms = append(f.froms, from)
	s, ok := f.series[symbol]
	if !ok {
		return nil, fmt.Errorf("no data for %s", symbol)
	}
	return s, nil
}

// flatSeries yields n gentle bars whose closes never escape the bands, so the
// trend state alternates deterministically from the bullish seed.
func flatSeries(symbol string, n int) models.BarSeries {
	out := make(models.BarSeries, 0, n)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		out = append(out, models.Bar{
			Time:   t0.AddDate(0, 0, 7*i),
			Symbol: symbol,
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100,
		})
	}
	return out
}

func advisorFixture(src *fakeSource) *AdvisorUseCase {
	return NewAdvisorUseCase(AdvisorDeps{Source: src}, AdvisorParams{
		Period:      10,
		Multiplier:  2.5,
		Interval:    domrepo.Weekly,
		Benchmark:   "BENCH",
		Gated:       []string{"ETF1", "ETF2"},
		Independent: []string{"GOLD"},
		Park:        "LIQUID",
	})
}

func findAction(t *testing.T, r *models.AdvisoryReport, ticker string) models.ActionEntry {
	t.Helper()
	for _, a := range r.Actions {
		if a.Ticker == ticker {
			return a
		}
	}
	t.Fatalf("no action for %s", ticker)
	return models.ActionEntry{}
}

func TestAdvisorMarketGreen(t *testing.T) {
	src := &fakeSource{series: map[string]models.BarSeries{
		"BENCH":  flatSeries("BENCH", 3),  // green, flipped this bar
		"ETF1":   flatSeries("ETF1", 3),   // flipped green -> BUY
		"ETF2":   flatSeries("ETF2", 2),   // flipped red -> SELL
		"GOLD":   flatSeries("GOLD", 1),   // steady green -> HOLD
		"LIQUID": flatSeries("LIQUID", 3), // ignored, park is rule-driven
	}}
	uc := advisorFixture(src)

	r, err := uc.Run(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !r.Market.Green {
		t.Fatalf("expected green benchmark")
	}
	for _, a := range r.Actions {
		if a.Action == models.ActionMarketRed {
			t.Fatalf("unexpected MARKET_RED under green benchmark")
		}
	}
	if a := findAction(t, r, "ETF1"); a.Action != models.ActionBuy {
		t.Fatalf("ETF1 action = %s, want BUY", a.Action)
	}
	if a := findAction(t, r, "ETF2"); a.Action != models.ActionSell {
		t.Fatalf("ETF2 action = %s, want SELL", a.Action)
	}
	if a := findAction(t, r, "GOLD"); a.Action != models.ActionHold {
		t.Fatalf("GOLD action = %s, want HOLD", a.Action)
	}
	if a := findAction(t, r, "LIQUID"); a.Action != models.ActionStandby {
		t.Fatalf("LIQUID action = %s, want STANDBY", a.Action)
	}
	if st, ok := r.Instruments["ETF1"]; !ok || !st.Green || st.PrevGreen {
		t.Fatalf("unexpected ETF1 state %+v", st)
	}
}

func TestAdvisorMarketRed(t *testing.T) {
	src := &fakeSource{series: map[string]models.BarSeries{
		"BENCH": flatSeries("BENCH", 2), // red
		"ETF1":  flatSeries("ETF1", 3),  // own trend green, gated -> SELL anyway
		"ETF2":  flatSeries("ETF2", 2),  // own trend red, gated -> SELL anyway
		"GOLD":  flatSeries("GOLD", 3),  // independent, still BUY
	}}
	uc := advisorFixture(src)

	r, err := uc.Run(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if r.Market.Green {
		t.Fatalf("expected red benchmark")
	}
	var sawRed bool
	for _, a := range r.Actions {
		if a.Action == models.ActionMarketRed {
			sawRed = true
		}
	}
	if !sawRed {
		t.Fatalf("expected MARKET_RED entry")
	}
	for _, sym := range []string{"ETF1", "ETF2"} {
		if a := findAction(t, r, sym); a.Action != models.ActionSell {
			t.Fatalf("%s action = %s, want SELL (benchmark red exits all gated)", sym, a.Action)
		}
	}
	if a := findAction(t, r, "GOLD"); a.Action != models.ActionBuy {
		t.Fatalf("GOLD action = %s, want BUY (independent of benchmark)", a.Action)
	}
	if a := findAction(t, r, "LIQUID"); a.Action != models.ActionPark {
		t.Fatalf("LIQUID action = %s, want PARK", a.Action)
	}
}

func TestAdvisorInstrumentErrorIsIsolated(t *testing.T) {
	src := &fakeSource{series: map[string]models.BarSeries{
		"BENCH": flatSeries("BENCH", 3),
		"ETF2":  flatSeries("ETF2", 3),
		"GOLD":  flatSeries("GOLD", 3),
	}}
	uc := advisorFixture(src)

	r, err := uc.Run(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if a := findAction(t, r, "ETF1"); a.Action != models.ActionError {
		t.Fatalf("ETF1 action = %s, want ERROR", a.Action)
	}
	if st := r.Instruments["ETF1"]; st.Error == "" {
		t.Fatalf("expected error state for ETF1")
	}
	if a := findAction(t, r, "ETF2"); a.Action != models.ActionBuy {
		t.Fatalf("ETF2 action = %s, want BUY despite sibling error", a.Action)
	}
}

func TestAdvisorDefaultLookbackWindow(t *testing.T) {
	src := &fakeSource{series: map[string]models.BarSeries{
		"BENCH": flatSeries("BENCH", 3),
		"ETF1":  flatSeries("ETF1", 3),
		"ETF2":  flatSeries("ETF2", 3),
		"GOLD":  flatSeries("GOLD", 3),
	}}
	uc := advisorFixture(src) // Lookback left unset

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := uc.Run(context.Background(), now); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := now.Add(-config.DefaultLookbackDays * 24 * time.Hour)
	if len(src.froms) == 0 || !src.froms[0].Equal(want) {
		t.Fatalf("fetch window starts at %v, want %v", src.froms, want)
	}
}

func TestAdvisorMissingBenchmarkFails(t *testing.T) {
	src := &fakeSource{series: map[string]models.BarSeries{
		"ETF1": flatSeries("ETF1", 3),
	}}
	uc := advisorFixture(src)

	if _, err := uc.Run(context.Background(), time.Now()); err == nil {
		t.Fatalf("expected error when benchmark is missing")
	}
}
