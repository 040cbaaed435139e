package engine

import (
	"math"
	"testing"

	"TrendBack/internal/domain/models"
)

func TestDayRegimeGapUp(t *testing.T) {
	bench := models.BarSeries{
		bar(day(2024, 1, 1), 100, 101, 99, 100),
		bar(day(2024, 1, 2), 100.2, 101, 99, 100),
	}
	r, ok := DayRegime(bench, 1)
	if !ok || r != RegimeBuy {
		t.Fatalf("+0.2%% gap should be BUY-biased, got %v ok=%v", r, ok)
	}
}

func TestDayRegimeGapDown(t *testing.T) {
	bench := models.BarSeries{
		bar(day(2024, 1, 1), 100, 101, 99, 100),
		bar(day(2024, 1, 2), 99.7, 100, 98, 99),
	}
	r, ok := DayRegime(bench, 1)
	if !ok || r != RegimeSell {
		t.Fatalf("-0.3%% gap should be SELL-biased, got %v ok=%v", r, ok)
	}
}

func TestDayRegimeNeutralInsideThreshold(t *testing.T) {
	bench := models.BarSeries{
		bar(day(2024, 1, 1), 100, 101, 99, 100),
		bar(day(2024, 1, 2), 100.05, 101, 99, 100),
	}
	r, ok := DayRegime(bench, 1)
	if !ok || r != RegimeNeutral {
		t.Fatalf("+0.05%% gap should be neutral, got %v ok=%v", r, ok)
	}
}

func TestDayRegimeNaNSuppresses(t *testing.T) {
	bench := models.BarSeries{
		bar(day(2024, 1, 1), 100, 101, 99, math.NaN()),
		bar(day(2024, 1, 2), 100.5, 101, 99, 100),
	}
	if _, ok := DayRegime(bench, 1); ok {
		t.Fatalf("NaN prior close must suppress the day")
	}
}

func TestDayRegimeFirstDayHasNoPriorClose(t *testing.T) {
	bench := models.BarSeries{bar(day(2024, 1, 1), 100, 101, 99, 100)}
	if _, ok := DayRegime(bench, 0); ok {
		t.Fatalf("day 0 has no prior close")
	}
}
