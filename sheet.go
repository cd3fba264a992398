package statement

import (
	"fmt"

	"github.com/etnz/statement/formula"
	"github.com/shopspring/decimal"
)

// SheetWriter places values and formulas in a sheet. Rows and columns are
// 1-based.
type SheetWriter interface {
	// SetValue writes a literal: nil, string, decimal.Decimal, date.Date or
	// an int.
	SetValue(row, col int, v any) error
	// SetFormula writes a formula starting with "=".
	SetFormula(row, col int, f string) error
	// Get returns the text of a cell, or its formula.
	Get(row, col int) (string, error)
}

// Labels written in the first column of the sheet.
const (
	PortfolioValueLabel = "Portfolio_Value"
	SummaryTitle        = "PORTFOLIO SUMMARY"
	TotalLabel          = "TOTAL"
	IRRLabel            = "Portfolio XIRR"
	IRRPercentLabel     = "Portfolio XIRR %"
	TotalQuantityColumn = "Total_Quantity"
	CurrentPriceColumn  = "Current_Price"
	ValueColumn         = "Value"
)

// summaryFormulasColumn holds the XIRR formulas.
const summaryFormulasColumn = 2

// sheetWriter is a SheetWriter whose first error sticks.
type sheetWriter struct {
	w   SheetWriter
	err error
}

func (s *sheetWriter) value(row, col int, v any) {
	if s.err != nil {
		return
	}
	if err := s.w.SetValue(row, col, v); err != nil {
		s.err = fmt.Errorf("cannot write %s: %w", formula.Cell(row, col), err)
	}
}

func (s *sheetWriter) formula(row, col int, f string) {
	if s.err != nil || f == "" {
		return
	}
	if err := s.w.SetFormula(row, col, f); err != nil {
		s.err = fmt.Errorf("cannot write formula in %s: %w", formula.Cell(row, col), err)
	}
}

// WriteSheet writes the transactions of res followed by the summary of p to
// w, and returns the layout used. The price and value formulas of p are
// filled for that layout.
func WriteSheet(w SheetWriter, res *Result, p *Portfolio, pricer formula.Pricer, opts Options) (Layout, error) {
	l := NewLayout(res.Columns, len(res.Records), len(p.Holdings), opts.DateField, opts.AmountField)
	p.FillFormulas(l, pricer)
	s := &sheetWriter{w: w}

	s.value(l.Header, 1, SymbolColumn)
	s.value(l.Header, 2, CodeColumn)
	for i, name := range res.Columns.Names() {
		s.value(l.Header, FieldColumn(i), name)
	}
	for n, r := range res.Records {
		row := l.FirstRecord + n
		s.value(row, 1, r.Symbol())
		if r.SecondaryID() != "" {
			s.value(row, 2, r.SecondaryID())
		}
		for i := range r.values {
			if v := r.values[i]; !v.IsNull() {
				s.value(row, FieldColumn(i), v.Cell())
			}
		}
	}

	s.value(l.PortfolioValue, 1, PortfolioValueLabel)
	if l.DateColumn > 0 {
		s.formula(l.PortfolioValue, l.DateColumn, formula.Today())
	}
	if l.AmountColumn > 0 {
		s.formula(l.PortfolioValue, l.AmountColumn, formula.Ref(formula.Cell(l.Total, SummaryValue)))
	}

	s.value(l.SummaryLabel, 1, SummaryTitle)
	s.value(l.SummaryHeader, SummaryCode, CodeColumn)
	s.value(l.SummaryHeader, SummarySymbol, SymbolColumn)
	s.value(l.SummaryHeader, SummaryQuantity, TotalQuantityColumn)
	s.value(l.SummaryHeader, SummaryPrice, CurrentPriceColumn)
	s.value(l.SummaryHeader, SummaryValue, ValueColumn)
	for i, h := range p.Holdings {
		row := l.FirstHolding + i
		if h.SecondaryID != "" {
			s.value(row, SummaryCode, h.SecondaryID)
		}
		s.value(row, SummarySymbol, h.Symbol)
		s.value(row, SummaryQuantity, h.Quantity.Decimal())
		s.formula(row, SummaryPrice, h.Price)
		s.formula(row, SummaryValue, h.Value)
	}

	s.value(l.Total, 1, TotalLabel)
	if len(p.Holdings) > 0 {
		s.formula(l.Total, SummaryQuantity, formula.Sum(formula.Range(SummaryQuantity, l.FirstHolding, l.LastHolding)))
		s.formula(l.Total, SummaryValue, formula.Sum(formula.Range(SummaryValue, l.FirstHolding, l.LastHolding)))
	} else {
		s.value(l.Total, SummaryQuantity, decimal.Zero)
		s.value(l.Total, SummaryValue, decimal.Zero)
	}

	s.value(l.IRR, 1, IRRLabel)
	s.value(l.IRRPercent, 1, IRRPercentLabel)
	if l.DateColumn > 0 && l.AmountColumn > 0 {
		amounts := formula.Range(l.AmountColumn, l.FirstRecord, l.PortfolioValue)
		dates := formula.Range(l.DateColumn, l.FirstRecord, l.PortfolioValue)
		s.formula(l.IRR, summaryFormulasColumn, formula.XIRR(amounts, dates))
		s.formula(l.IRRPercent, summaryFormulasColumn, formula.Percent(formula.Cell(l.IRR, summaryFormulasColumn)))
	}
	return l, s.err
}
