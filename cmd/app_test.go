package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/statement"
	"github.com/etnz/statement/config"
	"github.com/etnz/statement/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const dump = `{"pages": [{"tables": [[
	["Company", "Date", "Exchange", "B.Qty", "B.Rate", "S.Qty", "S.Rate", "N.Qty", "N.Rate", "N.Amt"],
	["Scrip_Symbol :", null, "500116 IDBI - IDBI BANK"],
	["IDBI BANK", "31-01-2022", "BSE", "10", "100.5", "0", "0", "10", "100.5", "-1,005"],
	["IDBI BANK", "01-02-2022", "BSE", "5", "101", "0", "0", "5", "101", "-505"],
	["Page 1 of 1"]
]]}]}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.json")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0644))
	return path
}

func extractDump(t *testing.T, cfg *config.Config) (*statement.Result, *statement.Portfolio, statement.Options) {
	t.Helper()
	doc, err := openDocument(context.Background(), writeDump(t), "", cfg)
	require.NoError(t, err)
	defer doc.Close()

	opts := cfg.Options(zerolog.Nop())
	res, err := statement.Extract(doc, opts)
	require.NoError(t, err)
	return res, statement.Aggregate(res.Records, opts), opts
}

func TestExtractorKind(t *testing.T) {
	tests := []struct {
		path, kind string
		want       string
		wantErr    bool
	}{
		{"a.pdf", "", extractorPDF, false},
		{"a.PDF", "", extractorPDF, false},
		{"a.json", "", extractorJSON, false},
		{"a.JSON", "", extractorJSON, false},
		{"a", "", extractorPDF, false},
		{"a.pdf", "gemini", extractorGemini, false},
		{"a.pdf", "json", extractorJSON, false},
		{"a.pdf", "ocr", "", true},
	}
	for _, tt := range tests {
		got, err := extractorKind(tt.path, tt.kind)
		if tt.wantErr {
			assert.Error(t, err, "extractorKind(%q, %q)", tt.path, tt.kind)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "extractorKind(%q, %q)", tt.path, tt.kind)
	}
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, filepath.Join("in", "jan_extraction.xlsx"), defaultOutput(filepath.Join("in", "jan.pdf"), ".xlsx"))
	assert.Equal(t, "jan_extraction.csv", defaultOutput("jan", ".csv"))
}

func TestOpenDocumentJSON(t *testing.T) {
	cfg := testConfig(t)
	res, p, _ := extractDump(t, cfg)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "IDBI", res.Records[0].Symbol())
	assert.Equal(t, "500116", res.Records[0].SecondaryID())
	require.Len(t, p.Holdings, 1)
	assert.True(t, p.Holdings[0].Quantity.Equal(statement.Q(15)))
}

func TestOpenDocumentErrors(t *testing.T) {
	cfg := testConfig(t)
	_, err := openDocument(context.Background(), filepath.Join(t.TempDir(), "missing.json"), "", cfg)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = openDocument(context.Background(), bad, "", cfg)
	assert.Error(t, err)

	_, err = openDocument(context.Background(), bad, "ocr", cfg)
	assert.ErrorContains(t, err, "unknown extractor")
}

func TestWriteOutputCSV(t *testing.T) {
	cfg := testConfig(t)
	res, p, opts := extractDump(t, cfg)

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, writeOutput(out, res, p, cfg, opts))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "Scrip_Symbol,Scrip_Code,Company,Date"), text)
	assert.Contains(t, text, "IDBI,500116,IDBI BANK,2022-01-31")
	assert.Contains(t, text, statement.SummaryTitle)
	assert.Contains(t, text, "=SUM(")
}

func TestWriteOutputJSONL(t *testing.T) {
	cfg := testConfig(t)
	res, p, opts := extractDump(t, cfg)

	out := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, writeOutput(out, res, p, cfg, opts))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)
	assert.Equal(t, "IDBI", lines[0]["Scrip_Symbol"])
	assert.Equal(t, "500116", lines[0]["Scrip_Code"])
	assert.Equal(t, "2022-02-01", lines[1]["Date"])
	assert.Equal(t, -505.0, lines[1]["N.Amt"])
}

func TestWriteOutputXLSX(t *testing.T) {
	cfg := testConfig(t)
	res, p, opts := extractDump(t, cfg)

	out := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, writeOutput(out, res, p, cfg, opts))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(cfg.SheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "IDBI", v)
	v, err = f.GetCellValue(cfg.SheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "500116", v)
}

func TestWriteOutputUnsupported(t *testing.T) {
	cfg := testConfig(t)
	res, p, opts := extractDump(t, cfg)
	err := writeOutput(filepath.Join(t.TempDir(), "out.pdf"), res, p, cfg, opts)
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestRunsMarkdown(t *testing.T) {
	cfg := testConfig(t)
	res, p, _ := extractDump(t, cfg)

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	md, err := runsMarkdown(ctx, db)
	require.NoError(t, err)
	assert.Contains(t, md, "No run saved.")

	require.NoError(t, db.SaveRun(ctx, store.Run{Source: "jan.json", CreatedAt: time.Now(), Result: res, Portfolio: p}))

	md, err = runsMarkdown(ctx, db)
	require.NoError(t, err)
	assert.Contains(t, md, "| "+res.RunID+" | jan.json |")

	md, err = holdingsMarkdown(ctx, db, res.RunID)
	require.NoError(t, err)
	assert.Contains(t, md, "| IDBI | 500116 | 15 |")

	md, err = holdingsMarkdown(ctx, db, "nope")
	require.NoError(t, err)
	assert.Contains(t, md, "No holdings.")
}

func TestSaveRun(t *testing.T) {
	cfg := testConfig(t)
	res, p, _ := extractDump(t, cfg)

	path := filepath.Join(t.TempDir(), "runs.sqlite")
	require.NoError(t, saveRun(context.Background(), path, "jan.json", res, p))

	db, err := store.Open(path)
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Records)
}

func TestWriteHoldings(t *testing.T) {
	cfg := testConfig(t)
	_, p, _ := extractDump(t, cfg)

	var buf bytes.Buffer
	require.NoError(t, writeHoldings(&buf, p))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var h map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &h))
	assert.Equal(t, "IDBI", h["Scrip_Symbol"])
	assert.Equal(t, "500116", h["Scrip_Code"])
	assert.Equal(t, 15.0, h["quantity"])
	assert.Equal(t, 2.0, h["records"])
}

func TestWriteRecords(t *testing.T) {
	cfg := testConfig(t)
	res, p, _ := extractDump(t, cfg)

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	require.NoError(t, db.SaveRun(ctx, store.Run{Source: "jan.json", CreatedAt: time.Now(), Result: res, Portfolio: p}))

	var buf bytes.Buffer
	require.NoError(t, writeRecords(ctx, &buf, db, res.RunID))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `{"Scrip_Symbol":"IDBI","Scrip_Code":"500116"`), lines[0])

	assert.ErrorContains(t, writeRecords(ctx, &buf, db, "nope"), "no records")
}
