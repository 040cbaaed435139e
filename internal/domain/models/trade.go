package models

import "time"

// Direction of a trade.
type Direction string

const (
	Long  Direction = "BUY"
	Short Direction = "SELL"
)

// Sign returns +1 for long trades and -1 for short trades.
func (d Direction) Sign() float64 {
	if d == Short {
		return -1
	}
	return 1
}

// Outcome tags how an intraday trade was closed.
type Outcome string

const (
	OutcomeWin       Outcome = "WIN"
	OutcomeLoss      Outcome = "LOSS"
	OutcomeBreakeven Outcome = "BREAKEVEN"
	OutcomePartial   Outcome = "PARTIAL"
	OutcomeEODClose  Outcome = "EOD_CLOSE"
)

// TradeRecord is one row of the simulation trade log. Immutable once appended.
type TradeRecord struct {
	Date      time.Time `json:"date"`
	Symbol    string    `json:"symbol"`
	Direction Direction `json:"direction"`
	Outcome   Outcome   `json:"outcome"`
	Entry     float64   `json:"entry"`
	Exit      float64   `json:"exit"`
	Quantity  int64     `json:"quantity"`
	Charges   float64   `json:"charges"`
	NetPnL    float64   `json:"net_pnl"`
	Capital   float64   `json:"capital"`
}

// SimulationSummary aggregates a finished run.
type SimulationSummary struct {
	StartCapital  float64 `json:"start_capital"`
	TotalInjected float64 `json:"total_injected"`
	FinalCapital  float64 `json:"final_capital"`
	ReturnPct     float64 `json:"return_pct"`
	Trades        int     `json:"trades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Breakevens    int     `json:"breakevens"`
	Partials      int     `json:"partials"`
	EODCloses     int     `json:"eod_closes"`
}

// SimulationResult is the full output of one backtest run.
type SimulationResult struct {
	RunID     string            `json:"run_id"`
	Policy    string            `json:"policy"`
	From      time.Time         `json:"from"`
	To        time.Time         `json:"to"`
	Trades    []TradeRecord     `json:"trades"`
	Summary   SimulationSummary `json:"summary"`
	SkipNotes map[string]string `json:"skip_notes,omitempty"` // symbol -> reason it was excluded for the run
}
