package date

import "fmt"

// Range represents a range of dates, boundaries included. The zero Range is
// empty.
type Range struct{ From, To Date }

// IsZero reports whether the range is empty.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Extend returns the smallest range holding r and d.
func (r Range) Extend(d Date) Range {
	if d.IsZero() {
		return r
	}
	if r.IsZero() {
		return Range{From: d, To: d}
	}
	if d.Before(r.From) {
		r.From = d
	}
	if d.After(r.To) {
		r.To = d
	}
	return r
}

func (r Range) String() string {
	switch {
	case r.IsZero():
		return ""
	case r.From == r.To:
		return r.From.String()
	default:
		return fmt.Sprintf("%s to %s", r.From, r.To)
	}
}
