package market

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// ParseLevels parses a bracketed list cell such as "[259.81, 262.77]" into
// price levels sorted ascending. The table carries these as stringified
// lists; cells that are empty, "[]", a NaN placeholder, or malformed in any
// way yield nil rather than an error, so one bad cell never sinks a load.
func ParseLevels(cell string) []float64 {
	s := strings.TrimSpace(cell)
	if s == "" || s == "[]" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") {
		return nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil
	}

	parts := strings.Split(inner, ",")
	levels := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			// One bad element makes the whole cell malformed.
			return nil
		}
		levels = append(levels, v)
	}
	sort.Float64s(levels)
	return levels
}
