package models

import "time"

// Bar is one OHLCV record for an instrument. Timestamps within a series are
// strictly increasing; gaps are allowed and must be tolerated by consumers.
type Bar struct {
	Time   time.Time `json:"time"`
	Symbol string    `json:"symbol"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// BarSeries is an ascending-by-time sequence of bars for a single instrument.
type BarSeries []Bar

func (s BarSeries) Len() int { return len(s) }

// Last returns the most recent bar and true, or a zero bar and false when empty.
func (s BarSeries) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// TimeIndex builds a unix-timestamp -> slice-index lookup for the series.
func (s BarSeries) TimeIndex() map[int64]int {
	idx := make(map[int64]int, len(s))
	for i, b := range s {
		idx[b.Time.Unix()] = i
	}
	return idx
}
