package engine

import (
	"math"
	"sort"

	"TrendBack/internal/domain/models"
)

// biasQuartile: the prior close must sit within this fraction of the prior
// range from the breakout edge for a signal to exist.
const biasQuartile = 0.25

// overrunFactor: a candidate is dropped when today's open has already run
// this far past its trigger.
const overrunFactor = 0.002

// Candidate is one instrument's breakout setup for a single day. Ephemeral:
// recomputed fresh each day, never persisted.
type Candidate struct {
	Symbol    string
	Direction models.Direction
	Trigger   float64
	Score     float64 // in [0,1], closeness of the prior close to the breakout edge
}

// RankerConfig holds the trigger construction parameters.
type RankerConfig struct {
	BufferPct float64 // trigger buffer as a fraction of the prior close
	TickSize  float64 // exchange price increment
}

// RoundToTick snaps a price to the nearest tick increment. The quotient is
// pre-rounded at micro precision so a decimal half (99.975 at tick 0.05,
// which divides to 1999.4999... in binary) still rounds up.
func RoundToTick(price, tick float64) float64 {
	if tick <= 0 {
		return price
	}
	ticks := math.Round(price/tick*1e6) / 1e6
	return math.Round(ticks) * tick
}

// EvaluateCandidate derives today's candidate for one instrument from the
// previous completed bar and today's opening bar. ok is false when the
// instrument produced no admissible signal for the day.
func EvaluateCandidate(symbol string, prev, today models.Bar, regime Regime, cfg RankerConfig) (Candidate, bool) {
	if !ValidBar(prev) || !ValidBar(today) {
		return Candidate{}, false
	}
	rng := prev.High - prev.Low
	if rng <= 0 {
		// degenerate bar, division-by-zero guard
		return Candidate{}, false
	}

	buyTrigger := RoundToTick(prev.High+prev.Close*cfg.BufferPct, cfg.TickSize)
	sellTrigger := RoundToTick(prev.Low-prev.Close*cfg.BufferPct, cfg.TickSize)

	switch {
	case prev.Close >= prev.High-biasQuartile*rng:
		if regime == RegimeSell {
			return Candidate{}, false
		}
		if today.Open > buyTrigger*(1+overrunFactor) {
			return Candidate{}, false // chased too far at the open
		}
		return Candidate{
			Symbol:    symbol,
			Direction: models.Long,
			Trigger:   buyTrigger,
			Score:     (prev.Close - prev.Low) / rng,
		}, true

	case prev.Close <= prev.Low+biasQuartile*rng:
		if regime == RegimeBuy {
			return Candidate{}, false
		}
		if today.Open < sellTrigger*(1-overrunFactor) {
			return Candidate{}, false
		}
		return Candidate{
			Symbol:    symbol,
			Direction: models.Short,
			Trigger:   sellTrigger,
			Score:     (prev.High - prev.Close) / rng,
		}, true

	default:
		return Candidate{}, false
	}
}

// BestCandidate picks the highest-scored candidate. The sort is stable, so
// equal scores resolve to the first instrument in scan order.
func BestCandidate(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	ranked := make([]Candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked[0], true
}
