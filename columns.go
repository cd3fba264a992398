package statement

import (
	"strings"

	"github.com/rs/zerolog"
)

// Kind is the type of the values held by a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Leading output columns, always written before the extracted fields.
const (
	SymbolColumn = "Scrip_Symbol"
	CodeColumn   = "Scrip_Code"
)

// numericFields are the statement columns parsed as amounts.
var numericFields = []string{"B.Qty", "B.Rate", "S.Qty", "S.Rate", "N.Qty", "N.Rate", "N.Amt"}

// FieldKind returns the kind of a column from its canonical name.
func FieldKind(name string) Kind {
	if name == "Date" {
		return KindDate
	}
	for _, n := range numericFields {
		if n == name {
			return KindNumber
		}
	}
	return KindText
}

// Field is a named, typed column.
type Field struct {
	Name string
	Kind Kind
}

// Columns is an ordered list of fields resolved once per run.
type Columns struct {
	fields []Field
	index  map[string]int
}

// NewColumns returns columns made of fields, in order. Later duplicates of a
// name are kept but Index only finds the first.
func NewColumns(fields ...Field) Columns {
	c := Columns{fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, exists := c.index[f.Name]; !exists {
			c.index[f.Name] = i
		}
	}
	return c
}

// ColumnsOf returns columns named names with kinds given by FieldKind.
func ColumnsOf(names ...string) Columns {
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = Field{Name: n, Kind: FieldKind(n)}
	}
	return NewColumns(fields...)
}

// DefaultColumns is the column list of the statement format.
func DefaultColumns() Columns {
	return ColumnsOf("Company", "Date", "Exchange", "B.Qty", "B.Rate", "S.Qty", "S.Rate", "N.Qty", "N.Rate", "N.Amt")
}

func (c Columns) Len() int { return len(c.fields) }

func (c Columns) Field(i int) Field { return c.fields[i] }

// Fields returns a copy of the fields.
func (c Columns) Fields() []Field { return append([]Field(nil), c.fields...) }

// Names returns the column names in order.
func (c Columns) Names() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of the column named name.
func (c Columns) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// columnKey folds a header text so that "N. Qty" and "n.qty" match.
func columnKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(CollapseLines(s)), ""))
}

// ResolveColumns derives the run columns from the header row. Each non-empty
// header cell, in order, becomes a column. Names matching a known column of
// known (ignoring case and spaces) take its canonical name and kind. An empty
// header resolves to known itself.
//
// Unknown names and missing required names are logged, never rejected.
func ResolveColumns(header Row, known Columns, required []string, log zerolog.Logger) Columns {
	keys := make(map[string]Field, known.Len())
	for _, f := range known.fields {
		keys[columnKey(f.Name)] = f
	}

	var fields []Field
	for _, cell := range header {
		if !cell.Filled() {
			continue
		}
		name := strings.TrimSpace(CollapseLines(cell.Text))
		if f, ok := keys[columnKey(name)]; ok {
			fields = append(fields, f)
			continue
		}
		log.Warn().Str("column", name).Msg("unknown header column")
		fields = append(fields, Field{Name: name, Kind: FieldKind(name)})
	}
	if len(fields) == 0 {
		log.Warn().Strs("columns", known.Names()).Msg("no header found, using default columns")
		return known
	}

	cols := NewColumns(fields...)
	for _, name := range required {
		if _, ok := cols.Index(name); !ok {
			log.Warn().Str("column", name).Msg("required column missing from header")
		}
	}
	return cols
}
