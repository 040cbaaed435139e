package engine

import (
	"math"
	"testing"
	"time"

	"TrendBack/internal/domain/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bar(t time.Time, o, h, l, c float64) models.Bar {
	return models.Bar{Time: t, Open: o, High: h, Low: l, Close: c}
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestATRFirstBarUsesHighLow(t *testing.T) {
	bars := models.BarSeries{bar(day(2024, 1, 1), 10, 12, 9, 11)}
	got := ATR(bars, 14)
	if len(got) != 1 {
		t.Fatalf("expected 1 value, got %d", len(got))
	}
	if !almost(got[0], 3) {
		t.Fatalf("first ATR should be high-low=3, got %v", got[0])
	}
}

func TestATRGapBeyondRange(t *testing.T) {
	// Second bar gaps far above the first close; true range must use the
	// |high - prevClose| leg, not just high-low.
	bars := models.BarSeries{
		bar(day(2024, 1, 1), 10, 11, 9, 10),
		bar(day(2024, 1, 2), 20, 21, 19, 20),
	}
	got := ATR(bars, 14)
	// TR0 = 2, TR1 = max(2, |21-10|, |19-10|) = 11, min-periods mean = 6.5
	if !almost(got[1], 6.5) {
		t.Fatalf("expected 6.5, got %v", got[1])
	}
}

func TestATRMinPeriodsWindow(t *testing.T) {
	var bars models.BarSeries
	for i := 0; i < 6; i++ {
		// constant 2-point range, touching the prior close
		bars = append(bars, bar(day(2024, 1, 1+i), 10, 11, 9, 10))
	}
	got := ATR(bars, 3)
	for i, v := range got {
		if !almost(v, 2) {
			t.Fatalf("bar %d: expected 2, got %v", i, v)
		}
	}
}

func TestATRConstantSeriesIsZero(t *testing.T) {
	var bars models.BarSeries
	for i := 0; i < 20; i++ {
		bars = append(bars, bar(day(2024, 1, 1+i), 50, 50, 50, 50))
	}
	for i, v := range ATR(bars, 14) {
		if v != 0 {
			t.Fatalf("bar %d: constant series must give ATR 0, got %v", i, v)
		}
	}
}

func TestATRNonNegative(t *testing.T) {
	bars := models.BarSeries{
		bar(day(2024, 1, 1), 100, 104, 97, 101),
		bar(day(2024, 1, 2), 101, 103, 95, 96),
		bar(day(2024, 1, 3), 96, 99, 94, 98),
		bar(day(2024, 1, 4), 98, 110, 98, 109),
		bar(day(2024, 1, 5), 109, 112, 102, 103),
	}
	for i, v := range ATR(bars, 3) {
		if v < 0 {
			t.Fatalf("bar %d: negative ATR %v", i, v)
		}
	}
}
