package engine

import (
	"testing"

	"TrendBack/internal/domain/models"
)

var testExits = ExitLevels{
	TargetPct: 0.006,
	StopPct:   0.002,
	Step1Pct:  0.002,
	Step2Pct:  0.004,
	LockPct:   0.003,
}

func TestTriggered(t *testing.T) {
	dayBar := bar(day(2024, 1, 2), 100, 101, 99, 100.5)
	if !Triggered(models.Long, 101, dayBar) {
		t.Fatalf("high reaching the buy trigger must confirm")
	}
	if Triggered(models.Long, 101.05, dayBar) {
		t.Fatalf("buy trigger above the high must not confirm")
	}
	if !Triggered(models.Short, 99, dayBar) {
		t.Fatalf("low reaching the sell trigger must confirm")
	}
	if Triggered(models.Short, 98.95, dayBar) {
		t.Fatalf("sell trigger below the low must not confirm")
	}
}

func TestConservativeStopFirst(t *testing.T) {
	// entry=100.00, stop=99.80, target=100.60; low=99.70, high=100.30.
	// Only the stop is in range, so LOSS at 99.80.
	dayBar := bar(day(2024, 1, 2), 100, 100.30, 99.70, 100.10)
	out, exit := ResolveOutcome(PolicyConservative, models.Long, 100.00, dayBar, testExits)
	if out != models.OutcomeLoss || !almost(exit, 99.80) {
		t.Fatalf("got %v at %v, want LOSS at 99.80", out, exit)
	}
}

func TestConservativeStopPriorityWhenBothTouch(t *testing.T) {
	// Both stop and target inside the day's range: conservative resolves LOSS.
	dayBar := bar(day(2024, 1, 2), 100, 100.80, 99.70, 100.10)
	out, exit := ResolveOutcome(PolicyConservative, models.Long, 100.00, dayBar, testExits)
	if out != models.OutcomeLoss || !almost(exit, 99.80) {
		t.Fatalf("got %v at %v, want LOSS at 99.80", out, exit)
	}
}

func TestConservativeWinAndEOD(t *testing.T) {
	win := bar(day(2024, 1, 2), 100, 100.80, 99.90, 100.10)
	out, exit := ResolveOutcome(PolicyConservative, models.Long, 100.00, win, testExits)
	if out != models.OutcomeWin || !almost(exit, 100.60) {
		t.Fatalf("got %v at %v, want WIN at 100.60", out, exit)
	}

	flat := bar(day(2024, 1, 2), 100, 100.10, 99.90, 100.05)
	out, exit = ResolveOutcome(PolicyConservative, models.Long, 100.00, flat, testExits)
	if out != models.OutcomeEODClose || !almost(exit, 100.05) {
		t.Fatalf("got %v at %v, want EOD_CLOSE at 100.05", out, exit)
	}
}

func TestConservativeShortMirror(t *testing.T) {
	// short entry 100: stop=100.20, target=99.40
	dayBar := bar(day(2024, 1, 2), 100, 100.30, 99.30, 99.90)
	out, exit := ResolveOutcome(PolicyConservative, models.Short, 100.00, dayBar, testExits)
	if out != models.OutcomeLoss || !almost(exit, 100.20) {
		t.Fatalf("short stop first: got %v at %v", out, exit)
	}

	winDay := bar(day(2024, 1, 2), 100, 100.10, 99.30, 99.50)
	out, exit = ResolveOutcome(PolicyConservative, models.Short, 100.00, winDay, testExits)
	if out != models.OutcomeWin || !almost(exit, 99.40) {
		t.Fatalf("short win: got %v at %v", out, exit)
	}
}

func TestStepLadderPriority(t *testing.T) {
	entry := 100.00
	// target, step2, step1 and stop all inside the range: target wins.
	wide := bar(day(2024, 1, 2), 100, 100.80, 99.70, 100.10)
	out, exit := ResolveOutcome(PolicyStepLadder, models.Long, entry, wide, testExits)
	if out != models.OutcomeWin || !almost(exit, 100.60) {
		t.Fatalf("ladder target first: got %v at %v", out, exit)
	}

	// high between step2 (100.40) and target: partial lock at 100.30.
	partial := bar(day(2024, 1, 2), 100, 100.45, 99.70, 100.10)
	out, exit = ResolveOutcome(PolicyStepLadder, models.Long, entry, partial, testExits)
	if out != models.OutcomePartial || !almost(exit, 100.30) {
		t.Fatalf("ladder partial: got %v at %v", out, exit)
	}

	// high between step1 (100.20) and step2: breakeven at entry.
	be := bar(day(2024, 1, 2), 100, 100.25, 99.70, 100.10)
	out, exit = ResolveOutcome(PolicyStepLadder, models.Long, entry, be, testExits)
	if out != models.OutcomeBreakeven || !almost(exit, entry) {
		t.Fatalf("ladder breakeven: got %v at %v", out, exit)
	}

	// no upside level reached, stop touched: loss at 99.80.
	loss := bar(day(2024, 1, 2), 100, 100.10, 99.70, 99.90)
	out, exit = ResolveOutcome(PolicyStepLadder, models.Long, entry, loss, testExits)
	if out != models.OutcomeLoss || !almost(exit, 99.80) {
		t.Fatalf("ladder loss: got %v at %v", out, exit)
	}

	// nothing touched: EOD close.
	flat := bar(day(2024, 1, 2), 100, 100.10, 99.90, 100.05)
	out, exit = ResolveOutcome(PolicyStepLadder, models.Long, entry, flat, testExits)
	if out != models.OutcomeEODClose || !almost(exit, 100.05) {
		t.Fatalf("ladder EOD: got %v at %v", out, exit)
	}
}

func TestStepLadderShortMirror(t *testing.T) {
	entry := 100.00
	// low between step2 (99.60) and target (99.40): partial at 99.70.
	partial := bar(day(2024, 1, 2), 100, 100.10, 99.55, 99.90)
	out, exit := ResolveOutcome(PolicyStepLadder, models.Short, entry, partial, testExits)
	if out != models.OutcomePartial || !almost(exit, 99.70) {
		t.Fatalf("short ladder partial: got %v at %v", out, exit)
	}
}
