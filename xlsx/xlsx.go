// Package xlsx writes sheets as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the name of the sheet when none is given.
const DefaultSheet = "Transactions"

const dateFormat = "yyyy-mm-dd"

// Writer is a single sheet workbook.
type Writer struct {
	f         *excelize.File
	sheet     string
	dateStyle int
}

// New returns a workbook with one sheet named sheet.
func New(sheet string) (*Writer, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("cannot name sheet %q: %w", sheet, err)
	}
	numFmt := dateFormat
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("cannot create date style: %w", err)
	}
	return &Writer{f: f, sheet: sheet, dateStyle: style}, nil
}

// Sheet returns the name of the sheet written to.
func (w *Writer) Sheet() string { return w.sheet }

func cellName(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}

// SetValue writes v. Numbers are stored as numbers and dates as real dates.
func (w *Writer) SetValue(row, col int, v any) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		return w.f.SetCellValue(w.sheet, cell, nil)
	case decimal.Decimal:
		return w.f.SetCellFloat(w.sheet, cell, x.InexactFloat64(), -1, 64)
	case date.Date:
		if err := w.f.SetCellValue(w.sheet, cell, x.Time()); err != nil {
			return err
		}
		return w.f.SetCellStyle(w.sheet, cell, cell, w.dateStyle)
	default:
		return w.f.SetCellValue(w.sheet, cell, x)
	}
}

// SetFormula writes f, which must start with "=".
func (w *Writer) SetFormula(row, col int, f string) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(f, "=") {
		return fmt.Errorf("invalid formula %q: must start with '='", f)
	}
	return w.f.SetCellFormula(w.sheet, cell, strings.TrimPrefix(f, "="))
}

// Get returns the formula of a cell prefixed by "=", or its formatted value.
func (w *Writer) Get(row, col int) (string, error) {
	cell, err := cellName(row, col)
	if err != nil {
		return "", err
	}
	formula, err := w.f.GetCellFormula(w.sheet, cell)
	if err != nil {
		return "", err
	}
	if formula != "" {
		return "=" + formula, nil
	}
	return w.f.GetCellValue(w.sheet, cell)
}

// Calc evaluates the cell, formulas included.
func (w *Writer) Calc(row, col int) (string, error) {
	cell, err := cellName(row, col)
	if err != nil {
		return "", err
	}
	return w.f.CalcCellValue(w.sheet, cell)
}

// SaveAs writes the workbook to path.
func (w *Writer) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save workbook %q: %w", path, err)
	}
	return nil
}

// WriteTo writes the workbook to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) { return w.f.WriteTo(out) }

// Close releases the workbook.
func (w *Writer) Close() error { return w.f.Close() }
