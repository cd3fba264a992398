package renderer

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/statement"
	"github.com/etnz/statement/store"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Report is the markdown view of an extraction run.
type Report struct {
	Source      string
	RunID       string
	Period      string
	Stats       statement.Stats
	RecordCount int
	Holdings    []ReportHolding
	Total       string
	Errors      []string
}

// ReportHolding is one line of the holdings table.
type ReportHolding struct {
	Symbol    string
	Code      string
	Quantity  string
	NetAmount string
	Records   int
}

// NewReport builds the report of res, aggregated into p.
func NewReport(source string, res *statement.Result, p *statement.Portfolio) *Report {
	r := &Report{Source: source}
	if res != nil {
		r.RunID = res.RunID
		r.Stats = res.Stats
		r.RecordCount = len(res.Records)
		for _, e := range res.Errors {
			r.Errors = append(r.Errors, e.Error())
		}
	}
	if p != nil {
		for _, h := range p.Holdings {
			r.Holdings = append(r.Holdings, ReportHolding{
				Symbol:    h.Symbol,
				Code:      h.SecondaryID,
				Quantity:  h.Quantity.String(),
				NetAmount: h.NetAmount.String(),
				Records:   h.Records,
			})
		}
		r.Total = p.NetAmount.String()
		r.Period = p.Period.String()
	}
	return r
}

// RenderReport renders the Report struct to a markdown string.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"report_title":    "report_title.md",
		"report_stats":    "report_stats.md",
		"report_holdings": "report_holdings.md",
		"report_errors":   "report_errors.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// RunList is the markdown view of the runs saved in a database.
type RunList struct {
	Runs []RunLine
}

// RunLine is one saved run.
type RunLine struct {
	ID      string
	Source  string
	Date    string
	Pages   int
	Skipped int
	Records int
}

// NewRunList lists runs in the given order.
func NewRunList(runs []store.RunInfo) *RunList {
	l := &RunList{}
	for _, r := range runs {
		l.Runs = append(l.Runs, RunLine{
			ID:      r.ID,
			Source:  r.Source,
			Date:    r.CreatedAt.Format("2006-01-02 15:04"),
			Pages:   r.Pages,
			Skipped: r.Skipped,
			Records: r.Records,
		})
	}
	return l
}

// RenderRuns renders the RunList struct to a markdown string.
func RenderRuns(l *RunList) string {
	return renderTemplate("runs", "runs.md", nil, l)
}

// RunHoldings is the markdown view of the holdings saved for one run.
type RunHoldings struct {
	RunID    string
	Holdings []ReportHolding
}

// NewRunHoldings builds the view of the holdings of run.
func NewRunHoldings(run string, holdings []statement.Holding) *RunHoldings {
	v := &RunHoldings{RunID: run}
	for _, h := range holdings {
		v.Holdings = append(v.Holdings, ReportHolding{
			Symbol:    h.Symbol,
			Code:      h.SecondaryID,
			Quantity:  h.Quantity.String(),
			NetAmount: h.NetAmount.String(),
			Records:   h.Records,
		})
	}
	return v
}

// RenderRunHoldings renders the RunHoldings struct to a markdown string.
func RenderRunHoldings(v *RunHoldings) string {
	return renderTemplate("run_holdings", "run_holdings.md", nil, v)
}

// Exploration is the classified raw content of a document, page by page.
type Exploration struct {
	Source string
	Pages  []ExploredPage
}

// ExploredPage holds the tables of one page, or the reason it could not be read.
type ExploredPage struct {
	Number int
	Error  string
	Tables []ExploredTable
}

// ExploredTable is a table whose rows have been classified.
type ExploredTable struct {
	Rows []ExploredRow
}

// ExploredRow is a raw row with its kind. Null cells are empty strings.
type ExploredRow struct {
	Kind   string
	Filled int
	Cells  []string
}

// Explore classifies every row of x without assembling records. The first
// row of the first non-empty table is the header.
func Explore(source string, x statement.Extractor, c statement.Classifier) *Exploration {
	e := &Exploration{Source: source}
	headerSeen := false
	for n := 1; n <= x.NumPages(); n++ {
		page := ExploredPage{Number: n}
		tables, err := x.Tables(n)
		if err != nil {
			page.Error = err.Error()
			e.Pages = append(e.Pages, page)
			continue
		}
		for _, t := range tables {
			var et ExploredTable
			for _, row := range t {
				kind := c.Classify(row)
				if !headerSeen {
					kind, headerSeen = statement.Header, true
				}
				cells := make([]string, len(row))
				for j, cell := range row {
					if cell.Valid {
						cells[j] = cell.Text
					}
				}
				et.Rows = append(et.Rows, ExploredRow{
					Kind:   kind.String(),
					Filled: row.Filled(),
					Cells:  cells,
				})
			}
			page.Tables = append(page.Tables, et)
		}
		e.Pages = append(e.Pages, page)
	}
	return e
}

// RenderTables renders the Exploration struct to a markdown string.
func RenderTables(e *Exploration) string {
	partials := map[string]string{
		"tables_page": "tables_page.md",
	}
	return renderTemplate("tables", "tables.md", partials, e)
}

// ToHTML converts a rendered markdown document to HTML, tables included.
func ToHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("could not convert markdown to html: %w", err)
	}
	return buf.String(), nil
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
