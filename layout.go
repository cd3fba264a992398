package statement

// Summary section columns.
const (
	SummaryCode = iota + 1
	SummarySymbol
	SummaryQuantity
	SummaryPrice
	SummaryValue
)

// Layout holds the 1-based rows and columns of every section of the output
// sheet. Each section starts right after the previous one.
type Layout struct {
	Header      int
	FirstRecord int
	LastRecord  int // FirstRecord-1 when there is no record

	PortfolioValue int
	Separator      int
	SummaryLabel   int
	SummaryHeader  int
	FirstHolding   int
	LastHolding    int // FirstHolding-1 when there is no holding
	Total          int
	Blank          int
	IRR            int
	IRRPercent     int

	// Transaction section columns, 0 when the field is not extracted.
	DateColumn   int
	AmountColumn int
}

// NewLayout computes the layout of a sheet with records transaction rows of
// cols and holdings summary rows.
func NewLayout(cols Columns, records, holdings int, dateField, amountField string) Layout {
	var l Layout
	l.Header = 1
	l.FirstRecord = l.Header + 1
	l.LastRecord = l.FirstRecord + records - 1

	l.PortfolioValue = l.LastRecord + 1
	l.Separator = l.PortfolioValue + 1
	l.SummaryLabel = l.Separator + 1
	l.SummaryHeader = l.SummaryLabel + 1
	l.FirstHolding = l.SummaryHeader + 1
	l.LastHolding = l.FirstHolding + holdings - 1
	l.Total = l.LastHolding + 1
	l.Blank = l.Total + 1
	l.IRR = l.Blank + 1
	l.IRRPercent = l.IRR + 1

	if i, ok := cols.Index(dateField); ok {
		l.DateColumn = FieldColumn(i)
	}
	if i, ok := cols.Index(amountField); ok {
		l.AmountColumn = FieldColumn(i)
	}
	return l
}

// FieldColumn returns the sheet column of the i-th extracted field. Columns 1
// and 2 hold the symbol and the secondary id.
func FieldColumn(i int) int { return i + 3 }
