// Package sheet provides an in-memory sheet that records values and formulas
// as text, and exports them as CSV.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
)

// Memory is a sparse grid of cells. Its zero value is not usable, use
// NewMemory.
type Memory struct {
	cells  map[[2]int]string
	maxRow int
	maxCol int
}

// NewMemory returns an empty grid.
func NewMemory() *Memory { return &Memory{cells: make(map[[2]int]string)} }

func checkCoordinates(row, col int) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell coordinates (%d, %d)", row, col)
	}
	return nil
}

// SetValue stores the text of v. A nil v clears the cell.
func (m *Memory) SetValue(row, col int, v any) error {
	if err := checkCoordinates(row, col); err != nil {
		return err
	}
	if v == nil {
		delete(m.cells, [2]int{row, col})
		return nil
	}
	m.set(row, col, format(v))
	return nil
}

// SetFormula stores f as is.
func (m *Memory) SetFormula(row, col int, f string) error {
	if err := checkCoordinates(row, col); err != nil {
		return err
	}
	if !strings.HasPrefix(f, "=") {
		return fmt.Errorf("invalid formula %q: must start with '='", f)
	}
	m.set(row, col, f)
	return nil
}

// Get returns the text or the formula of a cell, "" if empty.
func (m *Memory) Get(row, col int) (string, error) {
	if err := checkCoordinates(row, col); err != nil {
		return "", err
	}
	return m.cells[[2]int{row, col}], nil
}

// Size returns the last used row and column.
func (m *Memory) Size() (rows, cols int) { return m.maxRow, m.maxCol }

// Rows returns the grid as text, padded to a rectangle.
func (m *Memory) Rows() [][]string {
	rows := make([][]string, m.maxRow)
	for r := range rows {
		rows[r] = make([]string, m.maxCol)
		for c := range rows[r] {
			rows[r][c] = m.cells[[2]int{r + 1, c + 1}]
		}
	}
	return rows
}

// WriteCSV writes the grid to w. Formulas are written as text.
func (m *Memory) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(m.Rows()); err != nil {
		return fmt.Errorf("cannot write csv: %w", err)
	}
	return nil
}

func (m *Memory) set(row, col int, text string) {
	m.cells[[2]int{row, col}] = text
	m.maxRow = max(m.maxRow, row)
	m.maxCol = max(m.maxCol, col)
}

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	case date.Date:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
