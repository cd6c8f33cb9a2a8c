package export

import (
	"fmt"
	"strings"

	"workforce/internal/domain/reports"
)

const timestampLayout = "2006-01-02 15:04 UTC"

func Markdown(d reports.Downloadable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	fmt.Fprintf(&b, "Client: %s | Generated: %s\n\n", d.ClientName, d.GeneratedAt.UTC().Format(timestampLayout))

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(d.ExecutiveSummary.Text())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**Overall score:** %d (grade %s)\n\n", d.OverallScore, d.OverallGrade)
	if d.Narrative != "" {
		b.WriteString("### Analyst Narrative\n\n")
		b.WriteString(d.Narrative)
		b.WriteString("\n\n")
	}

	b.WriteString("## KPI Results\n\n")
	b.WriteString("| Code | Metric | Value | Score | Grade | Status |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, row := range d.KPIResults {
		status := row.Status
		if row.Error != "" {
			status += ": " + row.Error
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s |\n",
			row.Code, cell(row.Name), cell(row.Value), row.Score, row.Grade, cell(status))
	}
	b.WriteString("\n")

	b.WriteString("## Recommendations\n\n")
	if len(d.Recommendations) == 0 {
		b.WriteString("No recommendations. Every calculated metric meets its benchmark.\n\n")
	}
	for i, rec := range d.Recommendations {
		fmt.Fprintf(&b, "%d. **[%s] %s**: %s Expected impact: %s\n", i+1, rec.Priority, rec.Area, rec.Recommendation, rec.ExpectedImpact)
	}
	if len(d.Recommendations) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Appendix\n\n### Methodology\n\n")
	b.WriteString(d.Appendix.Methodology)
	b.WriteString("\n\n### Benchmarks\n\n")
	for _, line := range d.Appendix.Benchmarks {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	fmt.Fprintf(&b, "\n### Grade Scale\n\n%s\n\n### Metric Definitions\n\n", d.Appendix.GradeScale)
	for _, def := range d.Appendix.Definitions {
		fmt.Fprintf(&b, "- **%s (%s)**: %s Formula: `%s`. Required inputs: %s.\n",
			def.Name, def.Code, def.Definition, def.Formula, strings.Join(def.RequiredInputs, ", "))
	}
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
