package statement

import "fmt"

// pages is an Extractor serving fixed tables. A page with an error fails.
type pages struct {
	tables [][]Table
	errs   map[int]error
}

func (p pages) NumPages() int { return len(p.tables) }

func (p pages) Tables(page int) ([]Table, error) {
	if err := p.errs[page]; err != nil {
		return nil, err
	}
	if page < 1 || page > len(p.tables) {
		return nil, fmt.Errorf("no page %d", page)
	}
	return p.tables[page-1], nil
}

// row builds a Row. "<nil>" is a null cell.
func row(cells ...string) Row {
	r := make(Row, len(cells))
	for i, c := range cells {
		if c == "<nil>" {
			r[i] = Null
			continue
		}
		r[i] = Text(c)
	}
	return r
}

func headerRow() Row {
	return row("Company", "Date", "Exchange", "B.Qty", "B.Rate", "S.Qty", "S.Rate", "N.Qty", "N.Rate", "N.Amt")
}

func contextRow(payload string) Row {
	return row("Scrip_Symbol :", "<nil>", payload)
}

// buyRow is a transaction row with exactly 8 filled cells.
func buyRow(company, on, qty, amount string) Row {
	return row(company, on, "BSE", qty, "100.00", "", "", qty, "100.00", amount)
}

// fullRow is a transaction row with 10 filled cells.
func fullRow(company, on, qty, amount string) Row {
	return row(company, on, "NSE", "0", "0", "0", "0", qty, "100.00", amount)
}
