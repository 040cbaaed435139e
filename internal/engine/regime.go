package engine

import "TrendBack/internal/domain/models"

// Regime is the benchmark-derived directional bias for one trading day.
type Regime int

const (
	RegimeNeutral Regime = iota // no directional restriction
	RegimeBuy
	RegimeSell
)

func (r Regime) String() string {
	switch r {
	case RegimeBuy:
		return "BUY"
	case RegimeSell:
		return "SELL"
	default:
		return "NEUTRAL"
	}
}

// gapThreshold is the opening-gap fraction beyond which the day is biased.
const gapThreshold = 0.001

// DayRegime classifies day i of the benchmark series by its opening gap
// against the prior close. ok is false when either price is unavailable or
// non-finite; such a day suppresses trading system-wide.
func DayRegime(benchmark models.BarSeries, i int) (Regime, bool) {
	if i < 1 || i >= len(benchmark) {
		return RegimeNeutral, false
	}
	open := benchmark[i].Open
	prevClose := benchmark[i-1].Close
	if !finite(open) || !finite(prevClose) || prevClose == 0 {
		return RegimeNeutral, false
	}
	gap := (open - prevClose) / prevClose
	switch {
	case gap > gapThreshold:
		return RegimeBuy, true
	case gap < -gapThreshold:
		return RegimeSell, true
	default:
		return RegimeNeutral, true
	}
}
