package models

import "time"

// Advisory actions. BUY/SELL/HOLD/ERROR apply per instrument; PARK and STANDBY
// apply to the park (liquid) instrument; MARKET_RED is the market-wide note
// emitted when the benchmark trend is bearish.
const (
	ActionBuy       = "BUY"
	ActionSell      = "SELL"
	ActionHold      = "HOLD"
	ActionError     = "ERROR"
	ActionPark      = "PARK"
	ActionStandby   = "STANDBY"
	ActionMarketRed = "MARKET_RED"
)

// InstrumentState is the per-instrument section of the advisory report.
type InstrumentState struct {
	LastClose float64 `json:"last_close"`
	Green     bool    `json:"st_is_green"`
	PrevGreen bool    `json:"st_prev_green"`
	BandValue float64 `json:"st_value"`
	Error     string  `json:"error,omitempty"`
}

// ActionEntry is one row of the global action list.
type ActionEntry struct {
	Ticker string `json:"ticker,omitempty"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// BenchmarkState summarizes the benchmark trend used for regime gating.
type BenchmarkState struct {
	LastClose float64 `json:"last_close"`
	Green     bool    `json:"st_is_green"`
	BandValue float64 `json:"st_value"`
}

// AdvisoryReport is the structured output of an advisory run.
type AdvisoryReport struct {
	GeneratedAt  time.Time                  `json:"timestamp_utc"`
	Benchmark    string                     `json:"benchmark_ticker"`
	Gated        []string                   `json:"gated_tickers"`
	Independent  []string                   `json:"independent_tickers"`
	Park         string                     `json:"park_ticker"`
	Market       BenchmarkState             `json:"benchmark"`
	Instruments  map[string]InstrumentState `json:"instruments"`
	Independents map[string]InstrumentState `json:"independents"`
	Actions      []ActionEntry              `json:"action_summary"`
}
