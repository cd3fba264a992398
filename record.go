package statement

// Record is one transaction rebuilt from a statement row. It is immutable to
// callers.
type Record struct {
	symbol      string
	secondaryID string
	cols        Columns
	values      []Value
	filled      int
}

// NewRecord returns a record for symbol holding one value per column of cols.
// Missing trailing values are null.
func NewRecord(symbol, secondaryID string, cols Columns, values ...Value) *Record {
	r := &Record{symbol: symbol, secondaryID: secondaryID, cols: cols, values: make([]Value, cols.Len())}
	for i := range r.values {
		if i < len(values) {
			r.values[i] = values[i]
		} else {
			r.values[i] = NullValue(cols.Field(i).Kind)
		}
		if !r.values[i].IsNull() {
			r.filled++
		}
	}
	return r
}

// Symbol returns the scrip symbol, possibly Unknown.
func (r *Record) Symbol() string { return r.symbol }

// SecondaryID returns the scrip code, "" if none.
func (r *Record) SecondaryID() string { return r.secondaryID }

// Columns returns the columns of the record.
func (r *Record) Columns() Columns { return r.cols }

// Get returns the value of the column named name, null if there is no such
// column.
func (r *Record) Get(name string) Value {
	i, ok := r.cols.Index(name)
	if !ok {
		return Value{}
	}
	return r.values[i]
}

// Value returns the value of the i-th column.
func (r *Record) Value(i int) Value { return r.values[i] }

// Filled counts the filled cells of the row the record was built from, or its
// non-null values when built with NewRecord. A cell whose value failed to
// parse still counts.
func (r *Record) Filled() int { return r.filled }

// MarshalJSON writes the symbol, the secondary id and every column in order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append(SymbolColumn, r.symbol)
	w.Optional(CodeColumn, r.secondaryID)
	for i, f := range r.cols.fields {
		w.Append(f.Name, r.values[i])
	}
	return w.MarshalJSON()
}
