package textutil

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var numberRE = regexp.MustCompile(`[\d,]+`)

// CleanText collapses whitespace (including non-breaking spaces) and trims.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Fold normalizes text for comparison: NFKC (so full-width and composed
// variants collapse), trimmed, lowercased.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// ParseNumber extracts the first contiguous run of digits/commas from s,
// strips the commas and parses it. ok is false when s holds no number.
func ParseNumber(s string) (float64, bool) {
	m := numberRE.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
