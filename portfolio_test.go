package statement

import (
	"testing"

	"github.com/etnz/statement/formula"
	"github.com/etnz/statement/sheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractStatement(t *testing.T) (*Result, *Portfolio) {
	t.Helper()
	opts := DefaultOptions()
	res, err := Extract(statementPages(), opts)
	require.NoError(t, err)
	return res, Aggregate(res.Records, opts)
}

func TestAggregate(t *testing.T) {
	res, p := extractStatement(t)

	require.Len(t, p.Holdings, 3)
	assert.Equal(t, "IDBI", p.Holdings[0].Symbol)
	assert.Equal(t, "STATEBANK", p.Holdings[1].Symbol)
	assert.Equal(t, "TCS", p.Holdings[2].Symbol)

	idbi, ok := p.Holding("IDBI")
	require.True(t, ok)
	assert.Equal(t, "500116", idbi.SecondaryID)
	assert.True(t, idbi.Quantity.Equal(Q(15)), "IDBI quantity %s", idbi.Quantity)
	assert.Equal(t, 2, idbi.Records)
	assert.True(t, idbi.NetAmount.Equal(M(-1500, "INR")), "IDBI net amount %s", idbi.NetAmount)

	tcs, _ := p.Holding("TCS")
	assert.True(t, tcs.Quantity.Equal(Q(5)))

	// the total is the sum of every surviving record quantity.
	sum := decimal.Zero
	for _, r := range res.Records {
		q, _ := r.Get("N.Qty").Decimal()
		sum = sum.Add(q)
	}
	assert.True(t, p.Quantity.Decimal().Equal(sum))
	assert.True(t, p.Quantity.Equal(Q(27)))
}

func TestAggregateNullQuantity(t *testing.T) {
	cols := ColumnsOf("Date", "N.Qty")
	records := []*Record{
		NewRecord("A", "1", cols, DateValue("2022-01-01", true), NumberValue(decimal.NewFromInt(3))),
		NewRecord("A", "", cols, DateValue("2022-01-02", true)),
		NewRecord(Unknown, "", cols, DateValue("2022-01-03", true), NumberValue(decimal.NewFromInt(1))),
	}
	p := Aggregate(records, DefaultOptions())
	require.Len(t, p.Holdings, 2)
	a, _ := p.Holding("A")
	assert.True(t, a.Quantity.Equal(Q(3)))
	assert.Equal(t, 2, a.Records)
	assert.Equal(t, "2022-01-01 to 2022-01-03", p.Period.String())

	p.FillFormulas(NewLayout(cols, 3, 2, "Date", "N.Amt"), formula.DefaultPricer())
	u, _ := p.Holding(Unknown)
	assert.Empty(t, u.Price, "unknown holdings have no price")
	assert.Empty(t, u.Value)
	a, _ = p.Holding("A")
	assert.NotEmpty(t, a.Price)
}

func TestAggregateFirstSeenSecondaryID(t *testing.T) {
	cols := ColumnsOf("N.Qty")
	records := []*Record{
		NewRecord("A", "", cols, NumberValue(decimal.NewFromInt(1))),
		NewRecord("A", "111", cols, NumberValue(decimal.NewFromInt(1))),
		NewRecord("A", "222", cols, NumberValue(decimal.NewFromInt(1))),
	}
	p := Aggregate(records, DefaultOptions())
	require.Len(t, p.Holdings, 1)
	assert.Equal(t, "111", p.Holdings[0].SecondaryID)
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(DefaultColumns(), 5, 3, "Date", "N.Amt")
	assert.Equal(t, Layout{
		Header:         1,
		FirstRecord:    2,
		LastRecord:     6,
		PortfolioValue: 7,
		Separator:      8,
		SummaryLabel:   9,
		SummaryHeader:  10,
		FirstHolding:   11,
		LastHolding:    13,
		Total:          14,
		Blank:          15,
		IRR:            16,
		IRRPercent:     17,
		DateColumn:     4,
		AmountColumn:   12,
	}, l)

	empty := NewLayout(DefaultColumns(), 0, 0, "Date", "N.Amt")
	assert.Equal(t, 2, empty.PortfolioValue)
	assert.Equal(t, 5, empty.FirstHolding)
	assert.Equal(t, 5, empty.Total)

	none := NewLayout(ColumnsOf("Company"), 1, 1, "Date", "N.Amt")
	assert.Zero(t, none.DateColumn)
	assert.Zero(t, none.AmountColumn)
}

func TestWriteSheet(t *testing.T) {
	res, p := extractStatement(t)
	m := sheet.NewMemory()

	l, err := WriteSheet(m, res, p, formula.DefaultPricer(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 14, l.Total)

	get := func(row, col int) string {
		t.Helper()
		s, err := m.Get(row, col)
		require.NoError(t, err)
		return s
	}

	// header and records
	assert.Equal(t, SymbolColumn, get(1, 1))
	assert.Equal(t, CodeColumn, get(1, 2))
	assert.Equal(t, "Company", get(1, 3))
	assert.Equal(t, "N.Amt", get(1, 12))
	assert.Equal(t, "IDBI", get(2, 1))
	assert.Equal(t, "500116", get(2, 2))
	assert.Equal(t, "2022-01-31", get(2, 4))
	assert.Equal(t, "-1000", get(2, 12))
	assert.Empty(t, get(2, 8), "null values are not written")
	assert.Equal(t, "STATEBANK", get(6, 1))

	// portfolio value marker
	assert.Equal(t, PortfolioValueLabel, get(7, 1))
	assert.Equal(t, "=TODAY()", get(7, 4))
	assert.Equal(t, "=E14", get(7, 12))
	assert.Empty(t, get(8, 1))

	// summary
	assert.Equal(t, SummaryTitle, get(9, 1))
	assert.Equal(t, []string{CodeColumn, SymbolColumn, TotalQuantityColumn, CurrentPriceColumn, ValueColumn},
		[]string{get(10, 1), get(10, 2), get(10, 3), get(10, 4), get(10, 5)})
	assert.Equal(t, "500116", get(11, 1))
	assert.Equal(t, "IDBI", get(11, 2))
	assert.Equal(t, "15", get(11, 3))
	assert.Equal(t, formula.DefaultPricer().Price("IDBI", "500116"), get(11, 4))
	assert.Equal(t, "=C11*D11", get(11, 5))
	assert.Equal(t, "TCS", get(13, 2))
	assert.Equal(t, "=C13*D13", get(13, 5))

	assert.Equal(t, TotalLabel, get(14, 1))
	assert.Equal(t, "=SUM(C11:C13)", get(14, 3))
	assert.Equal(t, "=SUM(E11:E13)", get(14, 5))
	assert.Empty(t, get(15, 1))

	assert.Equal(t, IRRLabel, get(16, 1))
	assert.Equal(t, "=XIRR(L2:L7,D2:D7)", get(16, 2))
	assert.Equal(t, IRRPercentLabel, get(17, 1))
	assert.Equal(t, `=TEXT(B16,"0.00%")`, get(17, 2))

	// the price formulas are kept on the portfolio.
	assert.Equal(t, "=C11*D11", p.Holdings[0].Value)
}

func TestWriteSheetEmpty(t *testing.T) {
	res := &Result{Columns: DefaultColumns()}
	p := Aggregate(nil, DefaultOptions())
	m := sheet.NewMemory()

	l, err := WriteSheet(m, res, p, formula.DefaultPricer(), DefaultOptions())
	require.NoError(t, err)
	got, _ := m.Get(l.Total, SummaryQuantity)
	assert.Equal(t, "0", got)
	got, _ = m.Get(l.IRR, 2)
	assert.Equal(t, "=XIRR(L2:L2,D2:D2)", got)
}
