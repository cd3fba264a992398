package statement

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Extractor supplies the raw tables of a document, page by page.
type Extractor interface {
	// NumPages returns the number of pages of the document.
	NumPages() int
	// Tables returns the tables found on the page, numbered from 1.
	Tables(page int) ([]Table, error)
}

// ExtractionError reports that a page could not be read. The page is skipped.
type ExtractionError struct {
	Page int
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ErrUnreadable is returned by Extract when not a single page could be read.
var ErrUnreadable = errors.New("no readable page")

// Options tunes the extraction.
type Options struct {
	Classifier Classifier
	Cleaner    SymbolCleaner
	Columns    Columns // known columns, also used when the header is missing
	MinFilled  int
	Signature  [2]string // header texts identifying a repeated header row

	QuantityField string
	AmountField   string
	DateField     string
	Currency      string

	Log zerolog.Logger
}

// DefaultOptions returns the options tuned for the statement format.
func DefaultOptions() Options {
	return Options{
		Classifier:    DefaultClassifier(),
		Cleaner:       DefaultCleaner(),
		Columns:       DefaultColumns(),
		MinFilled:     DefaultMinFilled,
		Signature:     [2]string{"Company", "Date"},
		QuantityField: "N.Qty",
		AmountField:   "N.Amt",
		DateField:     "Date",
		Currency:      "INR",
		Log:           zerolog.Nop(),
	}
}

// Stats counts what happened during a run.
type Stats struct {
	Pages            int
	SkippedPages     int
	Tables           int
	Rows             int
	ContextRows      int
	TransactionRows  int
	NoiseRows        int
	DuplicateHeaders int
	SparseRecords    int
}

// Result is the outcome of an extraction run.
type Result struct {
	RunID   string
	Columns Columns
	Records []*Record
	Stats   Stats
	Errors  []*ExtractionError
}

// Empty reports whether the run produced no record.
func (r *Result) Empty() bool { return r == nil || len(r.Records) == 0 }

// Extract reads every page, table and row of x in order and rebuilds the
// transaction records.
//
// Unreadable pages are logged and skipped. Only an input where every page
// failed returns an error.
func Extract(x Extractor, opts Options) (*Result, error) {
	runID := uuid.NewString()
	log := opts.Log.With().Str("run_id", runID).Logger()

	res := &Result{RunID: runID}
	tracker := NewTracker(opts.MinFilled)
	var header Row
	headerSeen := false

	for page := 1; page <= x.NumPages(); page++ {
		res.Stats.Pages++
		tables, err := x.Tables(page)
		if err != nil {
			xerr := &ExtractionError{Page: page, Err: err}
			res.Errors = append(res.Errors, xerr)
			res.Stats.SkippedPages++
			log.Warn().Err(err).Int("page", page).Msg("skipping page")
			continue
		}
		for ti, table := range tables {
			if len(table) == 0 {
				continue
			}
			res.Stats.Tables++
			rows := table
			if !headerSeen {
				header, rows = table[0], table[1:]
				headerSeen = true
				res.Columns = ResolveColumns(header, opts.Columns, opts.required(), log)
				log.Debug().Int("page", page).Int("table", ti).Strs("columns", res.Columns.Names()).Msg("header")
			}
			for _, row := range rows {
				res.Stats.Rows++
				switch opts.Classifier.Classify(row) {
				case Context:
					res.Stats.ContextRows++
					tracker.Observe(opts.Classifier.Payload(row))
					log.Debug().Int("page", page).Str("payload", opts.Classifier.Payload(row)).Msg("context")
				case Transaction:
					res.Stats.TransactionRows++
					symbol, id := tracker.Attach(row.Filled())
					res.Records = append(res.Records, assemble(row, symbol, id, res.Columns))
				default:
					res.Stats.NoiseRows++
				}
			}
		}
	}

	if res.Stats.Pages > 0 && res.Stats.SkippedPages == res.Stats.Pages {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, res.Errors[0])
	}
	if !headerSeen {
		res.Columns = opts.Columns
	}

	res.Records = opts.dropRepeatedHeaders(res.Records, &res.Stats)
	ForwardFill(res.Records)
	for _, r := range res.Records {
		r.symbol, r.secondaryID = opts.Cleaner.Clean(r.symbol)
	}
	res.Records = opts.dropSparse(res.Records, &res.Stats)

	log.Info().
		Int("pages", res.Stats.Pages).
		Int("skipped_pages", res.Stats.SkippedPages).
		Int("tables", res.Stats.Tables).
		Int("records", len(res.Records)).
		Msg("extraction done")
	return res, nil
}

// assemble maps the non-null cells of row onto cols, in order. A null cell
// consumes no column; cells beyond the last column are dropped.
func assemble(row Row, symbol, secondaryID string, cols Columns) *Record {
	values := make([]Value, 0, cols.Len())
	for _, cell := range row {
		if !cell.Valid {
			continue
		}
		if len(values) == cols.Len() {
			break
		}
		values = append(values, normalizeValue(cols.Field(len(values)).Kind, cell.Text))
	}
	r := NewRecord(symbol, secondaryID, cols, values...)
	r.filled = row.Filled()
	return r
}

func (o Options) required() []string {
	return []string{o.DateField, o.QuantityField, o.AmountField}
}

func (o Options) dropRepeatedHeaders(records []*Record, stats *Stats) []*Record {
	a, b := o.Signature[0], o.Signature[1]
	if a == "" || b == "" {
		return records
	}
	kept := records[:0]
	for _, r := range records {
		if r.Get(a).String() == a && r.Get(b).String() == b {
			stats.DuplicateHeaders++
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func (o Options) dropSparse(records []*Record, stats *Stats) []*Record {
	kept := records[:0]
	for _, r := range records {
		if r.Filled() < o.MinFilled {
			stats.SparseRecords++
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
