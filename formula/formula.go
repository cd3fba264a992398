// Package formula builds spreadsheet formula strings. Every formula returned
// starts with "=".
package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnName returns the letters of the 1-based column col: 1 is "A", 27 is
// "AA". It panics on col < 1.
func ColumnName(col int) string {
	if col < 1 {
		panic("formula: column must be >= 1, got " + strconv.Itoa(col))
	}
	var b []byte
	for col > 0 {
		col--
		b = append(b, byte('A'+col%26))
		col /= 26
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// Cell returns the A1 reference of a 1-based (row, col).
func Cell(row, col int) string { return ColumnName(col) + strconv.Itoa(row) }

// Range returns the reference of the single-column range from row first to
// row last.
func Range(col, first, last int) string { return Cell(first, col) + ":" + Cell(last, col) }

func Sum(rng string) string { return "=SUM(" + rng + ")" }

func Product(a, b string) string { return "=" + a + "*" + b }

func Today() string { return "=TODAY()" }

// Ref returns a formula copying the value of cell.
func Ref(cell string) string { return "=" + cell }

// XIRR returns the internal rate of return of the cash flows in amounts dated
// by dates.
func XIRR(amounts, dates string) string { return "=XIRR(" + amounts + "," + dates + ")" }

// Percent formats the value of cell as a percentage with two decimals.
func Percent(cell string) string { return `=TEXT(` + cell + `,"0.00%")` }

// Quote returns s as a spreadsheet string literal.
func Quote(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` }

// Pricer builds the price lookup formula of a holding.
//
// During market hours the live price is used, the previous close otherwise.
// The symbol is looked up on Exchange first, then by secondary id on
// Fallback.
type Pricer struct {
	Exchange  string // like "NSE"
	Fallback  string // like "BOM", empty for no fallback
	OpenHour  int    // market opens at this hour, inclusive
	CloseHour int    // market closes at this hour, exclusive
}

// DefaultPricer looks up Indian equities.
func DefaultPricer() Pricer {
	return Pricer{Exchange: "NSE", Fallback: "BOM", OpenHour: 9, CloseHour: 16}
}

// Price returns the price formula for symbol, or "" when symbol is empty.
func (p Pricer) Price(symbol, secondaryID string) string {
	if symbol == "" {
		return ""
	}
	live := p.lookup(symbol, secondaryID, "price")
	closed := p.lookup(symbol, secondaryID, "closeyest")
	return fmt.Sprintf("=IF(AND(HOUR(NOW())>=%d,HOUR(NOW())<%d),%s,%s)", p.OpenHour, p.CloseHour, live, closed)
}

func (p Pricer) lookup(symbol, secondaryID, attribute string) string {
	primary := googleFinance(qualify(p.Exchange, symbol), attribute)
	if p.Fallback == "" || secondaryID == "" {
		return primary
	}
	return "IFERROR(" + primary + "," + googleFinance(qualify(p.Fallback, secondaryID), attribute) + ")"
}

func qualify(exchange, ticker string) string {
	if exchange == "" {
		return ticker
	}
	return exchange + ":" + ticker
}

func googleFinance(ticker, attribute string) string {
	return "GOOGLEFINANCE(" + Quote(ticker) + "," + Quote(attribute) + ")"
}
