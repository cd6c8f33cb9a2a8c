package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"workforce/internal/domain/reports"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 6.0
)

// PDF renders an A4 report with core fonts only.
func PDF(d reports.Downloadable) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(d.Title, true)
	pdf.SetAuthor("Workforce Intelligence", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.MultiCell(0, 9, tr(d.Title), "", "L", false)
	pdf.SetFont(pdfFont, "", 10)
	pdf.Cell(0, pdfLineHeight, tr(fmt.Sprintf("Client: %s", d.ClientName)))
	pdf.Ln(pdfLineHeight)
	pdf.Cell(0, pdfLineHeight, fmt.Sprintf("Generated: %s", d.GeneratedAt.UTC().Format(timestampLayout)))
	pdf.Ln(pdfLineHeight + 4)

	heading(pdf, "Executive Summary")
	pdf.SetFont(pdfFont, "", 11)
	pdf.MultiCell(0, pdfLineHeight, tr(d.ExecutiveSummary.Text()), "", "L", false)
	pdf.Ln(2)
	pdf.SetFont(pdfFont, "B", 11)
	pdf.Cell(0, pdfLineHeight, fmt.Sprintf("Overall score: %d (grade %s)", d.OverallScore, d.OverallGrade))
	pdf.Ln(pdfLineHeight + 2)
	if d.Narrative != "" {
		pdf.SetFont(pdfFont, "I", 11)
		pdf.MultiCell(0, pdfLineHeight, tr(d.Narrative), "", "L", false)
		pdf.Ln(2)
	}

	heading(pdf, "KPI Results")
	widths := []float64{18, 70, 36, 18, 16, 22}
	pdf.SetFont(pdfFont, "B", 10)
	for i, h := range []string{"Code", "Metric", "Value", "Score", "Grade", "Status"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(pdfFont, "", 10)
	for _, row := range d.KPIResults {
		cells := []string{string(row.Code), row.Name, row.Value, fmt.Sprint(row.Score), string(row.Grade), row.Status}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	for _, row := range d.KPIResults {
		if row.Error == "" {
			continue
		}
		pdf.SetFont(pdfFont, "I", 9)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s: %s", row.Code, row.Error)), "", "L", false)
	}
	pdf.Ln(4)

	heading(pdf, "Recommendations")
	if len(d.Recommendations) == 0 {
		pdf.SetFont(pdfFont, "", 11)
		pdf.MultiCell(0, pdfLineHeight, "No recommendations. Every calculated metric meets its benchmark.", "", "L", false)
	}
	for i, rec := range d.Recommendations {
		pdf.SetFont(pdfFont, "B", 11)
		pdf.MultiCell(0, pdfLineHeight, tr(fmt.Sprintf("%d. [%s] %s", i+1, rec.Priority, rec.Area)), "", "L", false)
		pdf.SetFont(pdfFont, "", 11)
		pdf.MultiCell(0, pdfLineHeight, tr(rec.Recommendation), "", "L", false)
		pdf.SetFont(pdfFont, "I", 10)
		pdf.MultiCell(0, pdfLineHeight, tr("Expected impact: "+rec.ExpectedImpact), "", "L", false)
		pdf.Ln(2)
	}

	pdf.AddPage()
	heading(pdf, "Appendix")
	pdf.SetFont(pdfFont, "", 10)
	pdf.MultiCell(0, 5, tr(d.Appendix.Methodology), "", "L", false)
	pdf.Ln(2)
	for _, line := range d.Appendix.Benchmarks {
		pdf.MultiCell(0, 5, tr("- "+line), "", "L", false)
	}
	pdf.Ln(2)
	pdf.MultiCell(0, 5, "Grade scale: "+d.Appendix.GradeScale, "", "L", false)
	pdf.Ln(2)
	for _, def := range d.Appendix.Definitions {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s (%s)", def.Name, def.Code)), "", "L", false)
		pdf.SetFont(pdfFont, "", 10)
		pdf.MultiCell(0, 5, tr(def.Definition), "", "L", false)
		pdf.MultiCell(0, 5, tr("Formula: "+def.Formula), "", "L", false)
		pdf.MultiCell(0, 5, tr("Required inputs: "+strings.Join(def.RequiredInputs, ", ")), "", "L", false)
		pdf.Ln(1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont(pdfFont, "B", 13)
	pdf.Cell(0, 8, text)
	pdf.Ln(9)
}
