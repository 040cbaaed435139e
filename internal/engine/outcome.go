package engine

import "TrendBack/internal/domain/models"

// Policy selects the priority order used to resolve a trade when several exit
// levels fall inside the same bar. Daily bars do not expose intrabar event
// order, so the order is a deliberate choice, not an inference of truth.
type Policy string

const (
	// PolicyConservative checks the stop-loss before any upside level.
	PolicyConservative Policy = "conservative"
	// PolicyStepLadder checks upside levels first, tightening the stop in
	// stages: target, partial lock, breakeven, then the stop.
	PolicyStepLadder Policy = "stepladder"
)

// ExitLevels holds the exit fractions applied to the entry price.
type ExitLevels struct {
	TargetPct float64 // full target
	StopPct   float64 // stop-loss
	Step1Pct  float64 // reached: stop moved to breakeven, exit at entry
	Step2Pct  float64 // reached: partial profit locked
	LockPct   float64 // locked profit fraction used for the partial exit price
}

// Triggered reports whether the candidate's breakout level was touched today.
// A day whose bar never reaches the trigger produces no trade at all.
func Triggered(dir models.Direction, trigger float64, day models.Bar) bool {
	if dir == models.Short {
		return day.Low <= trigger
	}
	return day.High >= trigger
}

// ResolveOutcome resolves a confirmed trade against the day's high/low in the
// policy's fixed priority order and returns the outcome tag with its exit
// price.
func ResolveOutcome(policy Policy, dir models.Direction, entry float64, day models.Bar, lv ExitLevels) (models.Outcome, float64) {
	if policy == PolicyStepLadder {
		return resolveStepLadder(dir, entry, day, lv)
	}
	return resolveConservative(dir, entry, day, lv)
}

func resolveConservative(dir models.Direction, entry float64, day models.Bar, lv ExitLevels) (models.Outcome, float64) {
	if dir == models.Short {
		stop := entry * (1 + lv.StopPct)
		target := entry * (1 - lv.TargetPct)
		switch {
		case day.High >= stop:
			return models.OutcomeLoss, stop
		case day.Low <= target:
			return models.OutcomeWin, target
		default:
			return models.OutcomeEODClose, day.Close
		}
	}

	stop := entry * (1 - lv.StopPct)
	target := entry * (1 + lv.TargetPct)
	switch {
	case day.Low <= stop:
		return models.OutcomeLoss, stop
	case day.High >= target:
		return models.OutcomeWin, target
	default:
		return models.OutcomeEODClose, day.Close
	}
}

func resolveStepLadder(dir models.Direction, entry float64, day models.Bar, lv ExitLevels) (models.Outcome, float64) {
	if dir == models.Short {
		switch {
		case day.Low <= entry*(1-lv.TargetPct):
			return models.OutcomeWin, entry * (1 - lv.TargetPct)
		case day.Low <= entry*(1-lv.Step2Pct):
			return models.OutcomePartial, entry * (1 - lv.LockPct)
		case day.Low <= entry*(1-lv.Step1Pct):
			return models.OutcomeBreakeven, entry
		case day.High >= entry*(1+lv.StopPct):
			return models.OutcomeLoss, entry * (1 + lv.StopPct)
		default:
			return models.OutcomeEODClose, day.Close
		}
	}

	switch {
	case day.High >= entry*(1+lv.TargetPct):
		return models.OutcomeWin, entry * (1 + lv.TargetPct)
	case day.High >= entry*(1+lv.Step2Pct):
		return models.OutcomePartial, entry * (1 + lv.LockPct)
	case day.High >= entry*(1+lv.Step1Pct):
		return models.OutcomeBreakeven, entry
	case day.Low <= entry*(1-lv.StopPct):
		return models.OutcomeLoss, entry * (1 - lv.StopPct)
	default:
		return models.OutcomeEODClose, day.Close
	}
}
