// Package jsontable reads table dumps stored as JSON, such as
//
//	{"pages": [{"tables": [[["Date", "N.Qty"], ["31-01-2022", 10, null]]]}]}
//
// A JSONPath expression selects the list of pages, each page being a list of
// tables, each table a list of rows, each row a list of cells.
package jsontable

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/statement"
)

// DefaultPath selects the tables of every page of a dump.
const DefaultPath = "$.pages[*].tables"

type page struct {
	tables []statement.Table
	err    error
}

// Document is a decoded dump. It implements statement.Extractor.
type Document struct {
	pages []page
}

// Decode reads a dump from r and selects its pages with path, or DefaultPath
// if empty. A page that is not a list of tables is kept as a failing page.
func Decode(r io.Reader, path string) (*Document, error) {
	if path == "" {
		path = DefaultPath
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot decode table dump: %w", err)
	}

	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot select pages with %q: %w", path, err)
	}
	jpages, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot select pages with %q: got %T, want a list", path, jval)
	}

	doc := &Document{pages: make([]page, len(jpages))}
	for i, jp := range jpages {
		doc.pages[i].tables, doc.pages[i].err = decodeTables(jp)
	}
	return doc, nil
}

// NumPages returns the number of pages selected.
func (d *Document) NumPages() int { return len(d.pages) }

// Tables returns the tables of the 1-based page.
func (d *Document) Tables(n int) ([]statement.Table, error) {
	if n < 1 || n > len(d.pages) {
		return nil, fmt.Errorf("page %d out of range [1, %d]", n, len(d.pages))
	}
	p := d.pages[n-1]
	return p.tables, p.err
}

func decodeTables(jval any) ([]statement.Table, error) {
	if jval == nil {
		return nil, nil
	}
	jtables, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("tables: got %T, want a list", jval)
	}
	tables := make([]statement.Table, 0, len(jtables))
	for t, jt := range jtables {
		jrows, ok := jt.([]any)
		if !ok {
			return nil, fmt.Errorf("table %d: got %T, want a list of rows", t, jt)
		}
		table := make(statement.Table, 0, len(jrows))
		for r, jr := range jrows {
			jcells, ok := jr.([]any)
			if !ok {
				return nil, fmt.Errorf("table %d row %d: got %T, want a list of cells", t, r, jr)
			}
			row := make(statement.Row, len(jcells))
			for c, jc := range jcells {
				cell, err := decodeCell(jc)
				if err != nil {
					return nil, fmt.Errorf("table %d row %d cell %d: %w", t, r, c, err)
				}
				row[c] = cell
			}
			table = append(table, row)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func decodeCell(jval any) (statement.Cell, error) {
	switch v := jval.(type) {
	case nil:
		return statement.Null, nil
	case string:
		return statement.Text(v), nil
	case json.Number:
		return statement.Text(v.String()), nil
	case float64:
		return statement.Text(fmt.Sprint(v)), nil
	case bool:
		return statement.Text(fmt.Sprint(v)), nil
	default:
		return statement.Null, fmt.Errorf("got %T, want a scalar", jval)
	}
}
