package tui

import (
	"fmt"
	"math"
)

// formatStat renders a data value with magnitude-aware precision.
func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	abs := math.Abs(v)
	switch {
	case abs == 0:
		return "0"
	case abs < 1e-3 || abs >= 1e6:
		return fmt.Sprintf("%.3e", v)
	case abs >= 100:
		return fmt.Sprintf("%.2f", v)
	case abs >= 1:
		return fmt.Sprintf("%.4f", v)
	default:
		return fmt.Sprintf("%.5f", v)
	}
}

// formatAxis renders an axis bound compactly.
func formatAxis(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "?"
	}
	abs := math.Abs(v)
	switch {
	case abs == 0:
		return "0"
	case abs < 0.01 || abs >= 10000:
		return fmt.Sprintf("%.1e", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// formatCount renders an integer with thousand separators.
func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

// truncate shortens a string to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
