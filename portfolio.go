package statement

import (
	"sort"

	"github.com/etnz/statement/date"
	"github.com/etnz/statement/formula"
)

// Holding is the summary of every record sharing one symbol.
type Holding struct {
	SecondaryID string // first seen
	Symbol      string
	Quantity    Quantity
	NetAmount   Money
	Records     int

	// Spreadsheet formulas, set by Portfolio.FillFormulas.
	Price string
	Value string
}

func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional(CodeColumn, h.SecondaryID)
	w.Append(SymbolColumn, h.Symbol)
	w.Append("quantity", h.Quantity)
	w.Append("netAmount", h.NetAmount)
	w.Append("records", h.Records)
	w.Optional("price", h.Price)
	w.Optional("value", h.Value)
	return w.MarshalJSON()
}

// Portfolio is the per-symbol aggregation of a run.
type Portfolio struct {
	Holdings  []Holding // sorted by symbol
	Quantity  Quantity  // sum of every holding quantity
	NetAmount Money
	Period    date.Range // parsed transaction dates
}

// Aggregate groups records by symbol and sums their quantity and net amount.
// A null quantity or amount counts as zero.
func Aggregate(records []*Record, opts Options) *Portfolio {
	p := &Portfolio{NetAmount: M(0, opts.Currency)}
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Symbol()]
		if !ok {
			i = len(p.Holdings)
			index[r.Symbol()] = i
			p.Holdings = append(p.Holdings, Holding{
				SecondaryID: r.SecondaryID(),
				Symbol:      r.Symbol(),
				NetAmount:   M(0, opts.Currency),
			})
		}
		h := &p.Holdings[i]
		if h.SecondaryID == "" {
			h.SecondaryID = r.SecondaryID()
		}
		h.Records++
		if d, ok := r.Get(opts.DateField).Date(); ok {
			p.Period = p.Period.Extend(d)
		}
		if q, ok := r.Get(opts.QuantityField).Decimal(); ok {
			h.Quantity = h.Quantity.Add(Q(q))
			p.Quantity = p.Quantity.Add(Q(q))
		}
		if a, ok := r.Get(opts.AmountField).Decimal(); ok {
			h.NetAmount = h.NetAmount.Add(M(a, opts.Currency))
			p.NetAmount = p.NetAmount.Add(M(a, opts.Currency))
		}
	}
	sort.SliceStable(p.Holdings, func(i, j int) bool { return p.Holdings[i].Symbol < p.Holdings[j].Symbol })
	return p
}

// Holding returns the holding of symbol.
func (p *Portfolio) Holding(symbol string) (Holding, bool) {
	for _, h := range p.Holdings {
		if h.Symbol == symbol {
			return h, true
		}
	}
	return Holding{}, false
}

// FillFormulas sets the price and value formulas of every holding for the
// rows of l. Unknown holdings get no formula.
func (p *Portfolio) FillFormulas(l Layout, pricer formula.Pricer) {
	for i := range p.Holdings {
		h := &p.Holdings[i]
		h.Price, h.Value = "", ""
		if h.Symbol == Unknown {
			continue
		}
		row := l.FirstHolding + i
		h.Price = pricer.Price(h.Symbol, h.SecondaryID)
		if h.Price != "" {
			h.Value = formula.Product(formula.Cell(row, SummaryQuantity), formula.Cell(row, SummaryPrice))
		}
	}
}
