package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"workforce/internal/domain/reports"
)

const (
	sheetSummary         = "Summary"
	sheetKPIs            = "KPIs"
	sheetRecommendations = "Recommendations"
	sheetAppendix        = "Appendix"
)

// XLSX renders one sheet per report section.
func XLSX(d reports.Downloadable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetKPIs, sheetRecommendations, sheetAppendix} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	summary := [][]any{
		{"Title", d.Title},
		{"Client", d.ClientName},
		{"Generated", d.GeneratedAt.UTC().Format(timestampLayout)},
		{"Overall Score", d.OverallScore},
		{"Overall Grade", string(d.OverallGrade)},
		{"Band", string(d.ExecutiveSummary.Band)},
		{"Status", d.ExecutiveSummary.Status},
		{"Summary", d.ExecutiveSummary.Text()},
	}
	if d.Narrative != "" {
		summary = append(summary, []any{"Narrative", d.Narrative})
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return nil, err
	}
	f.SetColWidth(sheetSummary, "A", "A", 16)
	f.SetColWidth(sheetSummary, "B", "B", 100)

	kpiRows := [][]any{{"Code", "Metric", "Value", "Score", "Grade", "Status", "Method", "Error"}}
	for _, row := range d.KPIResults {
		kpiRows = append(kpiRows, []any{string(row.Code), row.Name, row.Value, row.Score, string(row.Grade), row.Status, row.Method, row.Error})
	}
	if err := writeRows(f, sheetKPIs, kpiRows); err != nil {
		return nil, err
	}
	f.SetRowStyle(sheetKPIs, 1, 1, headerStyle)
	f.SetColWidth(sheetKPIs, "B", "B", 34)

	recRows := [][]any{{"Priority", "Area", "Metric", "Recommendation", "Expected Impact"}}
	for _, rec := range d.Recommendations {
		recRows = append(recRows, []any{string(rec.Priority), rec.Area, string(rec.Metric), rec.Recommendation, rec.ExpectedImpact})
	}
	if err := writeRows(f, sheetRecommendations, recRows); err != nil {
		return nil, err
	}
	f.SetRowStyle(sheetRecommendations, 1, 1, headerStyle)
	f.SetColWidth(sheetRecommendations, "D", "E", 60)

	appendix := [][]any{
		{"Methodology", d.Appendix.Methodology},
		{"Grade Scale", d.Appendix.GradeScale},
	}
	for _, line := range d.Appendix.Benchmarks {
		appendix = append(appendix, []any{"Benchmark", line})
	}
	appendix = append(appendix, []any{}, []any{"Code", "Name", "Definition", "Formula", "Format"})
	for _, def := range d.Appendix.Definitions {
		appendix = append(appendix, []any{string(def.Code), def.Name, def.Definition, def.Formula, string(def.Format)})
	}
	if err := writeRows(f, sheetAppendix, appendix); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, values := range rows {
		if len(values) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
