package statement

import "strings"

// Cell is a nullable text cell as produced by a table extractor.
type Cell struct {
	Text  string
	Valid bool // false for a null cell
}

// Text returns a non-null cell.
func Text(s string) Cell { return Cell{Text: s, Valid: true} }

// Null is the null cell.
var Null = Cell{}

// Filled reports whether the cell is non-null and not blank.
func (c Cell) Filled() bool { return c.Valid && strings.TrimSpace(c.Text) != "" }

// Row is one extracted table row.
type Row []Cell

// Filled counts the non-null, non-blank cells of the row.
func (r Row) Filled() int {
	n := 0
	for _, c := range r {
		if c.Filled() {
			n++
		}
	}
	return n
}

// Table is an ordered list of rows.
type Table []Row

// RowKind is the classification of a raw row.
type RowKind int

const (
	Noise RowKind = iota
	Header
	Context
	Transaction
)

func (k RowKind) String() string {
	switch k {
	case Header:
		return "header"
	case Context:
		return "context"
	case Transaction:
		return "transaction"
	default:
		return "noise"
	}
}

// DefaultMarker is the first cell text that identifies a scrip context row.
const DefaultMarker = "Scrip_Symbol :"

// Classifier tells context rows from transaction rows and noise.
//
// Header detection is positional and handled by Extract: the classifier only
// ever returns Context, Transaction or Noise.
type Classifier struct {
	Marker      string // first cell text of a context row
	PayloadCell int    // index of the cell holding the context payload
	MinCells    int    // a transaction needs strictly more filled cells than this
}

// DefaultClassifier returns the classifier tuned for the statement format.
func DefaultClassifier() Classifier {
	return Classifier{Marker: DefaultMarker, PayloadCell: 2, MinCells: 2}
}

// Classify returns the kind of row r.
func (c Classifier) Classify(r Row) RowKind {
	if c.isContext(r) {
		return Context
	}
	if r.Filled() > c.MinCells {
		return Transaction
	}
	return Noise
}

// Payload returns the context payload of r. It is only meaningful on a row
// classified as Context.
func (c Classifier) Payload(r Row) string {
	if c.PayloadCell < 0 || c.PayloadCell >= len(r) {
		return ""
	}
	return r[c.PayloadCell].Text
}

func (c Classifier) isContext(r Row) bool {
	if len(r) == 0 || c.PayloadCell < 0 || len(r) <= c.PayloadCell {
		return false
	}
	if !r[0].Valid || strings.TrimSpace(r[0].Text) != c.Marker {
		return false
	}
	return r[c.PayloadCell].Valid
}
