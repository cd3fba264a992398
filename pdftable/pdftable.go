// Package pdftable rebuilds tables from the text laid out on PDF pages.
//
// Text runs are grouped by row, split into cells on wide horizontal gaps and
// aligned on the columns of the row with the most cells. Each page yields at
// most one table.
package pdftable

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/etnz/statement"
	"github.com/ledongthuc/pdf"
)

// DefaultGap is the horizontal gap, in multiples of the font size, that
// separates two cells.
const DefaultGap = 1.2

// Document is an opened PDF. It implements statement.Extractor.
type Document struct {
	Gap float64

	closer io.Closer
	r      *pdf.Reader
}

// Open opens the PDF file at path. Corrupted files that make the parser panic
// are reported as errors.
func Open(path string) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("cannot open %q: panic during PDF parsing: %v", path, r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	return &Document{Gap: DefaultGap, closer: f, r: r}, nil
}

// Close releases the underlying file, if any.
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

func (d *Document) NumPages() int { return d.r.NumPage() }

// Tables returns the table of page n (1-based), none for a blank page.
func (d *Document) Tables(n int) (tables []statement.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			tables, err = nil, fmt.Errorf("panic during PDF extraction: %v", r)
		}
	}()
	if n < 1 || n > d.r.NumPage() {
		return nil, fmt.Errorf("page %d out of range [1, %d]", n, d.r.NumPage())
	}
	p := d.r.Page(n)
	if p.V.IsNull() {
		return nil, nil
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("cannot read text rows: %w", err)
	}

	var lines [][]span
	for _, row := range rows {
		line := make([]span, 0, len(row.Content))
		for _, t := range row.Content {
			line = append(line, span{x: t.X, w: t.W, size: t.FontSize, s: t.S})
		}
		lines = append(lines, line)
	}
	table := build(lines, d.Gap)
	if len(table) == 0 {
		return nil, nil
	}
	return []statement.Table{table}, nil
}

// span is a run of text at a horizontal position.
type span struct {
	x, w, size float64
	s          string
}

func (s span) end() float64 {
	if s.w > 0 {
		return s.x + s.w
	}
	// some fonts report no width: estimate half an em per glyph.
	return s.x + s.size*0.5*float64(len([]rune(s.s)))
}

// cell is a piece of text spanning [x0, x1].
type cell struct {
	x0, x1 float64
	text   string
}

// build turns lines of spans into an aligned table. Lines without text are
// dropped.
func build(lines [][]span, gap float64) statement.Table {
	var rows [][]cell
	for _, line := range lines {
		if cells := splitCells(line, gap); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return alignRows(rows)
}

// splitCells merges the spans of one line into cells, starting a new cell when
// the gap to the previous span exceeds gap times the font size.
func splitCells(line []span, gap float64) []cell {
	line = append([]span(nil), line...)
	sort.SliceStable(line, func(i, j int) bool { return line[i].x < line[j].x })

	var cells []cell
	var b strings.Builder
	var cur cell
	flush := func() {
		if text := strings.Join(strings.Fields(b.String()), " "); text != "" {
			cur.text = text
			cells = append(cells, cur)
		}
		b.Reset()
	}
	for i, s := range line {
		if i > 0 {
			d := s.x - cur.x1
			size := max(s.size, 1)
			switch {
			case d > gap*size:
				flush()
				cur = cell{x0: s.x}
			case d > 0.2*size:
				b.WriteString(" ")
			}
		} else {
			cur = cell{x0: s.x}
		}
		b.WriteString(s.s)
		cur.x1 = max(cur.x1, s.end())
	}
	if len(line) > 0 {
		flush()
	}
	return cells
}

// alignRows places every cell under the nearest column of the row with the
// most cells. Columns without a cell are null. Cells sharing a column are
// joined.
func alignRows(rows [][]cell) statement.Table {
	var anchors []float64
	for _, r := range rows {
		if len(r) > len(anchors) {
			anchors = anchors[:0]
			for _, c := range r {
				anchors = append(anchors, c.x0)
			}
		}
	}

	table := make(statement.Table, 0, len(rows))
	for _, r := range rows {
		row := make(statement.Row, len(anchors))
		for _, c := range r {
			i := nearest(anchors, c.x0)
			if row[i].Valid {
				row[i].Text += " " + c.text
			} else {
				row[i] = statement.Text(c.text)
			}
		}
		table = append(table, row)
	}
	return table
}

func nearest(anchors []float64, x float64) int {
	best := 0
	for i, a := range anchors {
		if abs(a-x) < abs(anchors[best]-x) {
			best = i
		}
	}
	return best
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
