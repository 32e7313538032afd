package builtins

import (
	"math"
	"strconv"
	"strings"
)

// parseFloatLoose implements the numeric-string parsing ToNumber uses:
// surrounding whitespace is trimmed, an empty string is 0, anything
// that doesn't parse as a float is NaN.
func parseFloatLoose(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
