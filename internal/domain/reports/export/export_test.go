package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"workforce/internal/domain/kpi"
	"workforce/internal/domain/reports"
)

func sampleDownloadable(t *testing.T, promotions float64) reports.Downloadable {
	t.Helper()
	composer := reports.NewComposer(kpi.NewEngine(kpi.DefaultCatalog(), kpi.DefaultPolicy()))
	r := composer.Compose(reports.ComposeInput{
		Title:  "Acme Q1 Review",
		Client: reports.ClientSnapshot{ID: "c1", Name: "Acme Corp"},
		Inputs: map[kpi.Code]kpi.InputSet{
			kpi.CodeTTC: {
				kpi.FieldRoleStartDate:            "2025-01-01",
				kpi.FieldPerformanceThresholdDate: "2025-02-15",
			},
			kpi.CodePDPT: {kpi.FieldPreTrainingMetric: 50.0, kpi.FieldPostTrainingMetric: 65.0},
			kpi.CodeBCI:  {kpi.FieldCompetencyRatingScores: []any{4.0, 4.0, 5.0}},
			kpi.CodeIMV:  {kpi.FieldInternalPromotions: promotions, kpi.FieldTotalRolesFilled: 10.0},
		},
	})
	r.GeneratedAt = time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	return r.Downloadable()
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		raw  string
		want Format
	}{
		{"", FormatJSON},
		{"PDF", FormatPDF},
		{"xlsx", FormatXLSX},
		{"markdown", FormatMarkdown},
		{" md ", FormatMarkdown},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.raw)
		if err != nil || got != tc.want {
			t.Fatalf("%q: expected %s, got %s (%v)", tc.raw, tc.want, got, err)
		}
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	d := reports.Downloadable{Title: "Acme Q1: Review!"}
	if got := Filename(d, FormatPDF); got != "acme-q1-review.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := Filename(reports.Downloadable{}, FormatJSON); got != "report.json" {
		t.Fatalf("unexpected fallback filename %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleDownloadable(t, 3))
	for _, want := range []string{
		"# Acme Q1 Review",
		"Client: Acme Corp | Generated: 2025-03-01 10:30 UTC",
		"## Executive Summary",
		"**Overall score:** 72 (grade C)",
		"| TTC | Time to Competency | 45 days | 75 | C | calculated |",
		"| PDPT | Performance Delta Post-Training | 30.0% | 100 | A | calculated |",
		"| RPL | Revenue per Learner | n/a | 0 | F | error: Missing required fields: revenue_attributed, trained_employee_count |",
		"1. **[Low] Internal Mobility**",
		"### Metric Definitions",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleDownloadable(t, 3))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"title", "generatedAt", "executiveSummary", "kpiResults", "recommendations", "appendix"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("json missing %q", key)
		}
	}
}

func TestPDFContainsSections(t *testing.T) {
	data, err := Render(FormatPDF, sampleDownloadable(t, 3))
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected a PDF header")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open pdf: %v", err)
	}
	if reader.NumPage() < 2 {
		t.Fatalf("expected at least two pages, got %d", reader.NumPage())
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		t.Fatalf("read text: %v", err)
	}
	text := buf.String()
	for _, want := range []string{"Acme Q1 Review", "Executive Summary", "KPI Results", "Recommendations", "Appendix"} {
		if !strings.Contains(text, want) {
			t.Fatalf("pdf text missing %q", want)
		}
	}
}

func TestXLSXSheets(t *testing.T) {
	data, err := Render(FormatXLSX, sampleDownloadable(t, 3))
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 4 || got[0] != sheetSummary {
		t.Fatalf("unexpected sheets %v", got)
	}
	score, _ := f.GetCellValue(sheetSummary, "B4")
	if score != "72" {
		t.Fatalf("expected overall score 72, got %q", score)
	}
	rows, err := f.GetRows(sheetKPIs)
	if err != nil {
		t.Fatalf("kpi rows: %v", err)
	}
	if len(rows) != 6 || rows[1][0] != "TTC" || rows[3][5] != kpi.StatusError {
		t.Fatalf("unexpected kpi rows: %v", rows)
	}
	recs, _ := f.GetRows(sheetRecommendations)
	if len(recs) != 2 || recs[1][0] != "Low" || recs[1][2] != "IMV" {
		t.Fatalf("unexpected recommendation rows: %v", recs)
	}
}

func TestDiff(t *testing.T) {
	a := sampleDownloadable(t, 3)
	same, err := Diff(a, a, "a.md", "b.md")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if same != "" {
		t.Fatalf("expected empty diff for identical reports, got:\n%s", same)
	}

	b := sampleDownloadable(t, 8)
	text, err := Diff(a, b, "a.md", "b.md")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	for _, want := range []string{"--- a.md", "+++ b.md", "-| IMV | Internal Mobility Velocity | 30.0% | 30 | F | calculated |", "+| IMV | Internal Mobility Velocity | 80.0% | 80 | B | calculated |"} {
		if !strings.Contains(text, want) {
			t.Fatalf("diff missing %q:\n%s", want, text)
		}
	}
}
