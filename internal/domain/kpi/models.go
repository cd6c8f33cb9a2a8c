package kpi

import "sort"

// CalculateFunc returns the raw metric value and the formula branch that produced it.
type CalculateFunc func(in InputSet) (value float64, method string, err error)

// NormalizeFunc maps a raw value onto the 0-100 scale. The engine clamps and rounds.
type NormalizeFunc func(p Policy, raw float64) float64

type FormatFunc func(value float64) string

type Definition struct {
	Code           Code     `json:"code"`
	Name           string   `json:"name"`
	Definition     string   `json:"definition"`
	RequiredInputs []string `json:"requiredInputs"`
	Formula        string   `json:"formula"`
	Format         Format   `json:"format"`

	Calculate CalculateFunc `json:"-"`
	Normalize NormalizeFunc `json:"-"`
	Render    FormatFunc    `json:"-"`
}

type Validation struct {
	IsValid       bool     `json:"isValid"`
	MissingFields []string `json:"missingFields"`
	Error         string   `json:"error,omitempty"`
}

type Result struct {
	Code          Code     `json:"code"`
	Success       bool     `json:"success"`
	Value         *float64 `json:"value"`
	Formatted     string   `json:"formatted,omitempty"`
	Method        string   `json:"method,omitempty"`
	Error         string   `json:"error,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

type Results map[Code]Result

type Score struct {
	Code      Code     `json:"code"`
	Name      string   `json:"name"`
	Score     int      `json:"score"`
	Grade     Grade    `json:"grade"`
	Status    string   `json:"status"`
	RawValue  *float64 `json:"rawValue"`
	Formatted string   `json:"formatted,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func (s Score) Calculated() bool {
	return s.Status == StatusCalculated
}

type ScoreReport struct {
	IndividualScores map[Code]Score `json:"individualScores"`
	OverallScore     int            `json:"overallScore"`
	OverallGrade     Grade          `json:"overallGrade"`
	Status           string         `json:"status"`
	CalculatedCount  int            `json:"calculatedCount"`
}

// Ordered returns the individual scores in canonical metric order, followed by
// any non-canonical codes sorted lexically.
func (r ScoreReport) Ordered() []Score {
	out := make([]Score, 0, len(r.IndividualScores))
	seen := make(map[Code]bool, len(r.IndividualScores))
	for _, code := range Codes() {
		if score, ok := r.IndividualScores[code]; ok {
			out = append(out, score)
			seen[code] = true
		}
	}
	var extra []Code
	for code := range r.IndividualScores {
		if !seen[code] {
			extra = append(extra, code)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, code := range extra {
		out = append(out, r.IndividualScores[code])
	}
	return out
}
