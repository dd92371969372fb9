package stats

import "math"

// round rounds v to the given number of decimals, half away from zero.
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func round1(v float64) float64 { return round(v, 1) }

func round2(v float64) float64 { return round(v, 2) }

// Percent returns part/total as a percentage with one decimal, or 0 when
// total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}
