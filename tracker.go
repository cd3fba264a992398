package statement

import "regexp"

// Unknown is the symbol given to records that could not be attributed to a
// scrip context.
const Unknown = "Unknown"

// DefaultMinFilled is the number of filled fields a row needs to be a full
// transaction.
const DefaultMinFilled = 8

var leadingDigits = regexp.MustCompile(`^\d+`)

// TrackerState is the state of a Tracker.
type TrackerState int

const (
	NoContext TrackerState = iota
	HasContext
)

// Tracker carries the current scrip context across rows, tables and pages of
// a single extraction run.
type Tracker struct {
	MinFilled int

	symbol      string
	secondaryID string
	has         bool
}

// NewTracker returns a tracker in the NoContext state.
func NewTracker(minFilled int) *Tracker { return &Tracker{MinFilled: minFilled} }

// Observe records the payload of a context row. It replaces any previous
// context.
func (t *Tracker) Observe(payload string) {
	t.symbol = payload
	t.secondaryID = leadingDigits.FindString(payload)
	t.has = true
}

// State returns the tracker state.
func (t *Tracker) State() TrackerState {
	if t.has {
		return HasContext
	}
	return NoContext
}

// Attach returns the symbol and secondary id for a transaction row with
// filled non-empty cells. Sparse rows get Unknown whatever the state, and so
// does any row seen before the first context row.
func (t *Tracker) Attach(filled int) (symbol, secondaryID string) {
	if !t.has || t.symbol == "" || filled < t.MinFilled {
		return Unknown, ""
	}
	return t.symbol, t.secondaryID
}

// ForwardFill replaces every Unknown symbol by the nearest preceding known
// one. Leading Unknown records stay Unknown. Running it twice is a no-op.
func ForwardFill(records []*Record) {
	last, lastID, seen := "", "", false
	for _, r := range records {
		if r.symbol == Unknown {
			if seen {
				r.symbol, r.secondaryID = last, lastID
			}
			continue
		}
		last, lastID, seen = r.symbol, r.secondaryID, true
	}
}
