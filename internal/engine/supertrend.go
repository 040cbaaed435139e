package engine

import "TrendBack/internal/domain/models"

// TrendPoint is the Supertrend state for one bar.
type TrendPoint struct {
	Bullish    bool
	Value      float64 // trailing band: final lower when bullish, final upper when bearish
	FinalUpper float64
	FinalLower float64
}

// Supertrend classifies every bar as bullish or bearish from ATR bands,
// returning one point per input bar.
//
// The computation is a strict left-to-right fold: the state at bar i depends
// only on the state at i-1 and bars up to i. Bar 0 has no prior state and is
// seeded bullish with the lower band as its value; this asymmetric seed is
// kept on purpose because changing it changes historical output.
func Supertrend(bars models.BarSeries, period int, multiplier float64) []TrendPoint {
	n := len(bars)
	out := make([]TrendPoint, n)
	if n == 0 {
		return out
	}

	atr := ATR(bars, period)

	for i := 0; i < n; i++ {
		mid := (bars[i].High + bars[i].Low) / 2
		basicUpper := mid + multiplier*atr[i]
		basicLower := mid - multiplier*atr[i]

		if i == 0 {
			out[0] = TrendPoint{
				Bullish:    true,
				Value:      basicLower,
				FinalUpper: basicUpper,
				FinalLower: basicLower,
			}
			continue
		}

		prev := out[i-1]
		prevClose := bars[i-1].Close

		finalUpper := prev.FinalUpper
		if basicUpper < prev.FinalUpper || prevClose > prev.FinalUpper {
			finalUpper = basicUpper
		}
		finalLower := prev.FinalLower
		if basicLower > prev.FinalLower || prevClose < prev.FinalLower {
			finalLower = basicLower
		}

		close := bars[i].Close
		bullish := prev.Bullish
		if prev.Bullish && close <= finalUpper {
			bullish = false
		} else if !prev.Bullish && close >= finalLower {
			bullish = true
		}

		value := finalUpper
		if bullish {
			value = finalLower
		}
		out[i] = TrendPoint{
			Bullish:    bullish,
			Value:      value,
			FinalUpper: finalUpper,
			FinalLower: finalLower,
		}
	}
	return out
}

// LatestTrend returns the last and previous trend points of a series along
// with the last close. When the series has a single bar the previous point
// equals the last one.
func LatestTrend(bars models.BarSeries, period int, multiplier float64) (last, prev TrendPoint, lastClose float64, ok bool) {
	if len(bars) == 0 {
		return TrendPoint{}, TrendPoint{}, 0, false
	}
	pts := Supertrend(bars, period, multiplier)
	last = pts[len(pts)-1]
	prev = last
	if len(pts) >= 2 {
		prev = pts[len(pts)-2]
	}
	return last, prev, bars[len(bars)-1].Close, true
}
