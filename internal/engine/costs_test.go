package engine

import (
	"math"
	"testing"
)

var testCosts = CostConfig{
	BrokerageRate: 0.0003,
	BrokerageCap:  20,
	STTRate:       0.00025,
	TxnRate:       0.0000325,
	GSTRate:       0.18,
	StampRate:     0.00003,
	SEBIRate:      0.000001,
}

func TestChargesZeroTurnover(t *testing.T) {
	if got := testCosts.Charges(0, 0); got != 0 {
		t.Fatalf("zero turnover must cost 0, got %v", got)
	}
}

func TestChargesMonotonic(t *testing.T) {
	prev := 0.0
	for _, turnover := range []float64{0, 1000, 10000, 50000, 200000, 1000000} {
		got := testCosts.ChargesOnTurnover(turnover)
		if got < prev {
			t.Fatalf("charges decreased: %v -> %v at turnover %v", prev, got, turnover)
		}
		prev = got
	}
}

func TestChargesCallFormsAgree(t *testing.T) {
	for _, turnover := range []float64{1000, 123456.78, 999999} {
		split := testCosts.Charges(turnover/2, turnover/2)
		combined := testCosts.ChargesOnTurnover(turnover)
		if split != combined {
			t.Fatalf("call forms disagree at %v: %v vs %v", turnover, split, combined)
		}
	}
}

func TestChargesBrokerageCap(t *testing.T) {
	// At 10M turnover, uncapped brokerage would be 3000; the cap holds it at 20.
	capped := testCosts.ChargesOnTurnover(10_000_000)
	loose := testCosts
	loose.BrokerageCap = math.MaxFloat64
	if uncapped := loose.ChargesOnTurnover(10_000_000); uncapped <= capped {
		t.Fatalf("cap not applied: capped=%v uncapped=%v", capped, uncapped)
	}
}

func TestChargesSellOnlyLevies(t *testing.T) {
	buyHeavy := testCosts.Charges(10000, 0)
	sellHeavy := testCosts.Charges(0, 10000)
	// Same total turnover, but STT applies to the sell leg and stamp duty to
	// the buy leg; with these rates the sell leg is the more expensive one.
	if sellHeavy <= buyHeavy {
		t.Fatalf("expected sell leg to carry STT: buy=%v sell=%v", buyHeavy, sellHeavy)
	}
}
