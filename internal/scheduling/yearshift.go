package scheduling

import (
	"regexp"
	"strconv"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// YearShifter rewrites four-digit year tokens so names from one season line up
// with the next, e.g. "2024 Boys" becomes "2025 Boys". Only tokens inside
// [Min, Max] move forward; moving backward accepts the shifted range, so a
// forward shift followed by a backward one restores the original name.
type YearShifter struct {
	Min int
	Max int
}

// DefaultYearShifter covers 2020 through 2039.
func DefaultYearShifter() YearShifter {
	return YearShifter{Min: 2020, Max: 2039}
}

// Forward adds one year to every in-range token.
func (y YearShifter) Forward(name string) string {
	return y.shift(name, 1, y.Min, y.Max)
}

// Backward subtracts one year from every token in [Min+1, Max+1], the range
// Forward produces. It is the inverse of Forward only for names whose tokens
// were in range before shifting: "2040" with the default range comes back as
// "2039" even though Forward leaves "2040" alone.
func (y YearShifter) Backward(name string) string {
	return y.shift(name, -1, y.Min+1, y.Max+1)
}

func (y YearShifter) shift(name string, delta, lo, hi int) string {
	return digitRun.ReplaceAllStringFunc(name, func(token string) string {
		if len(token) != 4 {
			return token
		}
		year, err := strconv.Atoi(token)
		if err != nil || year < lo || year > hi {
			return token
		}
		return strconv.Itoa(year + delta)
	})
}
