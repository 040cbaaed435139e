package engine

import (
	"testing"

	"TrendBack/internal/domain/models"
)

func trendFixture(n int) models.BarSeries {
	var bars models.BarSeries
	price := 100.0
	for i := 0; i < n; i++ {
		// steady uptrend with a mid-series slump to force a flip
		step := 1.5
		if i > n/2 && i <= n/2+4 {
			step = -6
		}
		price += step
		bars = append(bars, bar(day(2024, 1, 1+i), price-0.5, price+1, price-1.5, price))
	}
	return bars
}

func TestSupertrendSeedState(t *testing.T) {
	bars := models.BarSeries{bar(day(2024, 1, 1), 10, 12, 8, 11)}
	pts := Supertrend(bars, 10, 2.5)
	if !pts[0].Bullish {
		t.Fatalf("bar 0 must seed bullish")
	}
	// value = (h+l)/2 - mult*atr = 10 - 2.5*4 = 0
	if !almost(pts[0].Value, 0) {
		t.Fatalf("bar 0 value should be the lower band, got %v", pts[0].Value)
	}
	if !almost(pts[0].FinalUpper, 20) {
		t.Fatalf("bar 0 upper band should be 20, got %v", pts[0].FinalUpper)
	}
}

func TestSupertrendCausality(t *testing.T) {
	bars := trendFixture(30)
	full := Supertrend(bars, 10, 2.5)
	for cut := 1; cut <= len(bars); cut++ {
		part := Supertrend(bars[:cut], 10, 2.5)
		for i := 0; i < cut; i++ {
			if part[i] != full[i] {
				t.Fatalf("state at bar %d changed when bars after %d were removed: %+v vs %+v", i, cut-1, part[i], full[i])
			}
		}
	}
}

func TestSupertrendFlips(t *testing.T) {
	bars := trendFixture(30)
	pts := Supertrend(bars, 10, 2.5)

	sawBearish := false
	for i := 1; i < len(pts); i++ {
		if pts[i-1].Bullish && !pts[i].Bullish {
			sawBearish = true
			if bars[i].Close > pts[i].FinalUpper {
				t.Fatalf("bar %d flipped bearish with close %v above upper band %v", i, bars[i].Close, pts[i].FinalUpper)
			}
		}
		if !pts[i-1].Bullish && pts[i].Bullish {
			if bars[i].Close < pts[i].FinalLower {
				t.Fatalf("bar %d flipped bullish with close %v below lower band %v", i, bars[i].Close, pts[i].FinalLower)
			}
		}
	}
	if !sawBearish {
		t.Fatalf("fixture never flipped bearish; trend fixture broken")
	}
}

func TestSupertrendBandValueMatchesState(t *testing.T) {
	for i, p := range Supertrend(trendFixture(25), 10, 2.5) {
		want := p.FinalUpper
		if p.Bullish {
			want = p.FinalLower
		}
		if p.Value != want {
			t.Fatalf("bar %d: reported band %v does not match state", i, p.Value)
		}
	}
}

func TestLatestTrendSingleBar(t *testing.T) {
	bars := models.BarSeries{bar(day(2024, 1, 1), 10, 12, 8, 11)}
	last, prev, lastClose, ok := LatestTrend(bars, 10, 2.5)
	if !ok {
		t.Fatalf("expected ok")
	}
	if last != prev {
		t.Fatalf("single bar: prev should equal last")
	}
	if lastClose != 11 {
		t.Fatalf("last close: got %v", lastClose)
	}
}
