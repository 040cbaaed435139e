package models

// Requests for the strategy HTTP endpoints. Defined in domain for consistency
// and reuse across handlers.

type ReportRequest struct {
	Symbols string `query:"symbols" json:"symbols"` // optional comma-separated override of the gated list
}

type BacktestRequest struct {
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Policy string `query:"policy" json:"policy" default:"conservative" validate:"oneof=conservative stepladder"`
}

type TradesRequest struct {
	RunID  string `query:"run_id" json:"run_id"`
	Symbol string `query:"symbol" json:"symbol"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=10000"`
}
