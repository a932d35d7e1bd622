package sanitizer

import "math"

// RoundAmount rounds a monetary amount to two decimal places.
func RoundAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}
