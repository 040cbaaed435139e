package engine

import (
	"math"

	"TrendBack/internal/domain/models"
)

// ATR computes the average true range per bar: a simple moving average of
// true range over the last min(i+1, period) bars, so early bars average over
// however many samples exist instead of emitting undefined values.
func ATR(bars models.BarSeries, period int) []float64 {
	if period < 1 {
		period = 1
	}
	n := len(bars)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	tr := make([]float64, n)
	tr[0] = bars[0].High - bars[0].Low
	for i := 1; i < n; i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += tr[i]
		if i >= period {
			sum -= tr[i-period]
		}
		w := i + 1
		if w > period {
			w = period
		}
		out[i] = sum / float64(w)
	}
	return out
}
