package engine

import (
	"testing"

	"TrendBack/internal/domain/models"
)

var testRanker = RankerConfig{BufferPct: 0.001, TickSize: 0.05}

func TestRoundToTick(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{100.027, 100.05},
		{100.01, 100.00},
		{99.975, 100.00}, // binary quotient sits just under the half
		{0.075, 0.10},
		{250.00, 250.00},
	}
	for _, c := range cases {
		if got := RoundToTick(c.in, 0.05); !almost(got, c.want) {
			t.Fatalf("RoundToTick(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEvaluateCandidateBuySignal(t *testing.T) {
	prev := bar(day(2024, 1, 1), 100, 110, 100, 109) // close in top quartile
	today := bar(day(2024, 1, 2), 110, 112, 109, 111)
	c, ok := EvaluateCandidate("ACME", prev, today, RegimeNeutral, testRanker)
	if !ok {
		t.Fatalf("expected a BUY candidate")
	}
	if c.Direction != models.Long {
		t.Fatalf("expected long, got %v", c.Direction)
	}
	// trigger = round(110 + 109*0.001) = round(110.109) -> 110.10
	if !almost(c.Trigger, 110.10) {
		t.Fatalf("trigger = %v, want 110.10", c.Trigger)
	}
	if !almost(c.Score, 0.9) {
		t.Fatalf("score = %v, want 0.9", c.Score)
	}
}

func TestEvaluateCandidateSellSignal(t *testing.T) {
	prev := bar(day(2024, 1, 1), 110, 110, 100, 101) // close in bottom quartile
	today := bar(day(2024, 1, 2), 100, 101, 98, 99)
	c, ok := EvaluateCandidate("ACME", prev, today, RegimeNeutral, testRanker)
	if !ok || c.Direction != models.Short {
		t.Fatalf("expected a SELL candidate, got %+v ok=%v", c, ok)
	}
	// trigger = round(100 - 101*0.001) = round(99.899) -> 99.90
	if !almost(c.Trigger, 99.90) {
		t.Fatalf("trigger = %v, want 99.90", c.Trigger)
	}
	if !almost(c.Score, 0.9) {
		t.Fatalf("score = %v, want 0.9", c.Score)
	}
}

func TestEvaluateCandidateMiddleCloseNoSignal(t *testing.T) {
	prev := bar(day(2024, 1, 1), 100, 110, 100, 105)
	today := bar(day(2024, 1, 2), 105, 106, 104, 105)
	if _, ok := EvaluateCandidate("ACME", prev, today, RegimeNeutral, testRanker); ok {
		t.Fatalf("mid-range close must produce no signal")
	}
}

func TestEvaluateCandidateZeroRangeExcluded(t *testing.T) {
	prev := bar(day(2024, 1, 1), 100, 100, 100, 100)
	today := bar(day(2024, 1, 2), 100, 101, 99, 100)
	if _, ok := EvaluateCandidate("ACME", prev, today, RegimeNeutral, testRanker); ok {
		t.Fatalf("zero-range prior bar must be excluded")
	}
}

func TestEvaluateCandidateRegimeGate(t *testing.T) {
	buyPrev := bar(day(2024, 1, 1), 100, 110, 100, 109)
	sellPrev := bar(day(2024, 1, 1), 110, 110, 100, 101)
	today := bar(day(2024, 1, 2), 105, 106, 104, 105)

	if _, ok := EvaluateCandidate("ACME", buyPrev, today, RegimeSell, testRanker); ok {
		t.Fatalf("BUY signal must be excluded on a SELL-biased day")
	}
	if _, ok := EvaluateCandidate("ACME", sellPrev, today, RegimeBuy, testRanker); ok {
		t.Fatalf("SELL signal must be excluded on a BUY-biased day")
	}
	if _, ok := EvaluateCandidate("ACME", buyPrev, bar(day(2024, 1, 2), 110, 112, 109, 111), RegimeBuy, testRanker); !ok {
		t.Fatalf("BUY signal must pass on a BUY-biased day")
	}
}

func TestEvaluateCandidateGapOverrun(t *testing.T) {
	prev := bar(day(2024, 1, 1), 100, 110, 100, 109) // buy trigger 110.10
	// open beyond trigger*1.002 = 110.3202
	chased := bar(day(2024, 1, 2), 110.40, 112, 110, 111)
	if _, ok := EvaluateCandidate("ACME", prev, chased, RegimeNeutral, testRanker); ok {
		t.Fatalf("open past trigger*1.002 must be excluded")
	}
	// open exactly at the trigger is admitted
	atTrigger := bar(day(2024, 1, 2), 110.10, 112, 110, 111)
	if _, ok := EvaluateCandidate("ACME", prev, atTrigger, RegimeNeutral, testRanker); !ok {
		t.Fatalf("open at the trigger must be admitted")
	}
}

func TestBestCandidateStableTieBreak(t *testing.T) {
	cands := []Candidate{
		{Symbol: "AAA", Score: 0.8},
		{Symbol: "BBB", Score: 0.9},
		{Symbol: "CCC", Score: 0.9},
	}
	best, ok := BestCandidate(cands)
	if !ok {
		t.Fatalf("expected a pick")
	}
	if best.Symbol != "BBB" {
		t.Fatalf("equal scores must resolve to scan order; got %s", best.Symbol)
	}
	if _, ok := BestCandidate(nil); ok {
		t.Fatalf("no candidates means no trade")
	}
}
