package engine

import "math"

// CostConfig is the broker/exchange rate table. Every rate is a fraction of
// the relevant turnover; none of them is hard-coded logic.
type CostConfig struct {
	BrokerageRate float64 // per round trip, capped at BrokerageCap
	BrokerageCap  float64
	STTRate       float64 // securities transaction tax, sell leg only
	TxnRate       float64 // exchange transaction charge, total turnover
	GSTRate       float64 // levied on brokerage + transaction charge
	StampRate     float64 // stamp duty, buy leg only
	SEBIRate      float64 // regulatory fee, total turnover
}

// Charges computes the total round-trip transaction cost from the buy and
// sell leg turnovers, rounded to the cent.
func (c CostConfig) Charges(buyTurnover, sellTurnover float64) float64 {
	turnover := buyTurnover + sellTurnover
	brokerage := math.Min(c.BrokerageCap, turnover*c.BrokerageRate)
	stt := sellTurnover * c.STTRate
	txn := turnover * c.TxnRate
	gst := (brokerage + txn) * c.GSTRate
	stamp := buyTurnover * c.StampRate
	sebi := turnover * c.SEBIRate
	return round2(brokerage + stt + txn + gst + stamp + sebi)
}

// ChargesOnTurnover is the combined-turnover call form. It splits the
// turnover evenly across the legs, so it agrees with Charges(t/2, t/2).
func (c CostConfig) ChargesOnTurnover(turnover float64) float64 {
	return c.Charges(turnover/2, turnover/2)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
