package reports

import (
	"time"

	"workforce/internal/domain/kpi"
)

type ClientSnapshot struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Industry      string `json:"industry,omitempty"`
	EmployeeCount int    `json:"employeeCount,omitempty"`
	ContactName   string `json:"contactName,omitempty"`
	ContactEmail  string `json:"contactEmail,omitempty"`
}

// Highlight names one metric singled out by the executive summary.
type Highlight struct {
	Code  kpi.Code  `json:"code"`
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Grade kpi.Grade `json:"grade"`
}

type ExecutiveSummary struct {
	Headline     string     `json:"headline"`
	Band         Band       `json:"band"`
	OverallScore int        `json:"overallScore"`
	OverallGrade kpi.Grade  `json:"overallGrade"`
	Status       string     `json:"status"`
	Strongest    *Highlight `json:"strongestArea,omitempty"`
	Weakest      *Highlight `json:"improvementArea,omitempty"`
	Implication  string     `json:"strategicImplication"`
}

type Recommendation struct {
	Priority       Priority `json:"priority"`
	Metric         kpi.Code `json:"metric,omitempty"`
	Area           string   `json:"area"`
	Recommendation string   `json:"recommendation"`
	ExpectedImpact string   `json:"expectedImpact"`
}

type Appendix struct {
	Methodology string           `json:"methodology"`
	Benchmarks  []string         `json:"benchmarks"`
	GradeScale  string           `json:"gradeScale"`
	Definitions []kpi.Definition `json:"definitions"`
}

type Report struct {
	ID               string           `json:"id"`
	TenantID         string           `json:"tenantId"`
	AssessmentID     string           `json:"assessmentId"`
	ClientID         string           `json:"clientId"`
	Title            string           `json:"title"`
	Client           ClientSnapshot   `json:"client"`
	ExecutiveSummary ExecutiveSummary `json:"executiveSummary"`
	Results          kpi.Results      `json:"kpiResults"`
	Scores           kpi.ScoreReport  `json:"kpiScores"`
	Recommendations  []Recommendation `json:"recommendations"`
	Appendix         Appendix         `json:"appendix"`
	Narrative        string           `json:"narrative,omitempty"`
	ArtifactKey      string           `json:"artifactKey,omitempty"`
	GeneratedBy      string           `json:"generatedBy,omitempty"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}

// KPIRow is one metric as it appears in a rendered report.
type KPIRow struct {
	Code   kpi.Code  `json:"code"`
	Name   string    `json:"name"`
	Value  string    `json:"value"`
	Score  int       `json:"score"`
	Grade  kpi.Grade `json:"grade"`
	Status string    `json:"status"`
	Method string    `json:"method,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// Downloadable is the projection handed to renderers and API consumers.
type Downloadable struct {
	Title            string           `json:"title"`
	ClientName       string           `json:"clientName"`
	GeneratedAt      time.Time        `json:"generatedAt"`
	ExecutiveSummary ExecutiveSummary `json:"executiveSummary"`
	Narrative        string           `json:"narrative,omitempty"`
	OverallScore     int              `json:"overallScore"`
	OverallGrade     kpi.Grade        `json:"overallGrade"`
	KPIResults       []KPIRow         `json:"kpiResults"`
	Recommendations  []Recommendation `json:"recommendations"`
	Appendix         Appendix         `json:"appendix"`
}

func (r Report) Downloadable() Downloadable {
	rows := make([]KPIRow, 0, len(r.Scores.IndividualScores))
	for _, score := range r.Scores.Ordered() {
		result := r.Results[score.Code]
		row := KPIRow{
			Code:   score.Code,
			Name:   score.Name,
			Value:  score.Formatted,
			Score:  score.Score,
			Grade:  score.Grade,
			Status: score.Status,
			Method: result.Method,
			Error:  score.Error,
		}
		if row.Value == "" {
			row.Value = "n/a"
		}
		rows = append(rows, row)
	}
	recs := make([]Recommendation, len(r.Recommendations))
	copy(recs, r.Recommendations)
	return Downloadable{
		Title:            r.Title,
		ClientName:       r.Client.Name,
		GeneratedAt:      r.GeneratedAt,
		ExecutiveSummary: r.ExecutiveSummary,
		Narrative:        r.Narrative,
		OverallScore:     r.Scores.OverallScore,
		OverallGrade:     r.Scores.OverallGrade,
		KPIResults:       rows,
		Recommendations:  recs,
		Appendix:         r.Appendix,
	}
}

// Text renders the summary as prose in sentence order.
func (s ExecutiveSummary) Text() string {
	out := s.Headline
	if s.Strongest != nil {
		out += " Strongest performance area: " + describe(*s.Strongest) + "."
	}
	if s.Weakest != nil {
		out += " Primary improvement opportunity: " + describe(*s.Weakest) + "."
	}
	if s.Implication != "" {
		out += " " + s.Implication
	}
	return out
}
