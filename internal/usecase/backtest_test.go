package usecase

import (
	"context"
	"testing"
	"time"

	"TrendBack/internal/domain/models"
	domrepo "TrendBack/internal/domain/repository"
	"TrendBack/internal/engine"
)

func dailySeries(symbol string, n int) models.BarSeries {
	out := make(models.BarSeries, 0, n)
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		out = append(out, models.Bar{
			Time:   t0.AddDate(0, 0, i),
			Symbol: symbol,
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100,
		})
	}
	return out
}

func backtestFixture(src *fakeSource) *BacktestUseCase {
	cfg := engine.Config{
		Capital:   100000,
		Leverage:  5,
		BufferPct: 0.001,
		TickSize:  0.05,
		Policy:    engine.PolicyConservative,
		Exits:     engine.ExitLevels{TargetPct: 0.006, StopPct: 0.002, Step1Pct: 0.002, Step2Pct: 0.004, LockPct: 0.003},
	}
	return NewBacktestUseCase(BacktestDeps{Source: src}, cfg, domrepo.Daily, "BENCH", []string{"ACME", "GHOST"})
}

func TestBacktestSkipsMissingInstrument(t *testing.T) {
	src := &fakeSource{series: map[string]models.BarSeries{
		"BENCH": dailySeries("BENCH", 5),
		"ACME":  dailySeries("ACME", 5),
	}}
	uc := backtestFixture(src)

	res, err := uc.Run(context.Background(), RunBacktestParams{
		Benchmark: "BENCH",
		From:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.RunID == "" {
		t.Fatalf("expected run id")
	}
	if _, ok := res.SkipNotes["GHOST"]; !ok {
		t.Fatalf("expected skip note for GHOST, got %v", res.SkipNotes)
	}
	if res.Summary.StartCapital != 100000 {
		t.Fatalf("unexpected start capital %v", res.Summary.StartCapital)
	}
}

func TestBacktestMissingBenchmarkFails(t *testing.T) {
	src := &fakeSource{series: map[string]models.BarSeries{
		"ACME": dailySeries("ACME", 5),
	}}
	uc := backtestFixture(src)

	_, err := uc.Run(context.Background(), RunBacktestParams{
		Benchmark: "BENCH",
		From:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatalf("expected error for missing benchmark")
	}
}

func TestBacktestRejectsInvertedRange(t *testing.T) {
	uc := backtestFixture(&fakeSource{series: map[string]models.BarSeries{}})
	_, err := uc.Run(context.Background(), RunBacktestParams{
		Benchmark: "BENCH",
		From:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatalf("expected error for from > to")
	}
}
