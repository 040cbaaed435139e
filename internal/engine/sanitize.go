package engine

import (
	"math"

	"TrendBack/internal/domain/models"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidBar reports whether every numeric field read by the engine is finite
// and the high/low bracket is consistent. Bars failing this check are skipped,
// never repaired.
func ValidBar(b models.Bar) bool {
	if !finite(b.Open) || !finite(b.High) || !finite(b.Low) || !finite(b.Close) {
		return false
	}
	return b.High >= b.Low
}
