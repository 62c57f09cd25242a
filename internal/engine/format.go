package engine

import (
	"math"
	"strconv"
)

// FormatNumber renders v as the shortest decimal string that round-trips,
// without an exponent, trailing zeros or a dangling point. Negative zero
// renders as "0".
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseEntry reads an entry buffer. The buffer is built by the engine itself
// so it is always a valid decimal; an empty buffer (or a lone "0.") is zero.
func parseEntry(buf string) float64 {
	if buf == "" {
		return 0
	}
	v, err := strconv.ParseFloat(buf, 64)
	if err != nil {
		return 0
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
