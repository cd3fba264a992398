package statement

import (
	"regexp"
	"strings"

	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
)

var (
	lineBreaks    = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	nonNumericRex = regexp.MustCompile(`[^0-9.\-]`)
)

// CollapseLines replaces every line break in s by a single space.
func CollapseLines(s string) string { return lineBreaks.Replace(s) }

// ParseAmount parses a printed amount like "1,234.50" or "Rs. -12.00".
// Empty or unparsable input is reported as not ok, never as an error.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(s, ",", "")
	s = nonNumericRex.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NormalizeDate re-emits s as YYYY-MM-DD if any known layout matches. It
// returns s unchanged and false otherwise.
func NormalizeDate(s string) (string, bool) {
	d, ok := date.ParseAny(s)
	if !ok {
		return s, false
	}
	return d.String(), true
}
