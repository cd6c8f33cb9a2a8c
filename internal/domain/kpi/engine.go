package kpi

import (
	"fmt"
	"math"
	"strings"
)

type Engine struct {
	catalog Catalog
	policy  Policy
}

func NewEngine(catalog Catalog, policy Policy) *Engine {
	return &Engine{catalog: catalog, policy: policy}
}

func (e *Engine) Catalog() Catalog {
	return e.catalog
}

func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) ValidateInput(code Code, inputs InputSet) Validation {
	def, ok := e.catalog.Lookup(code)
	if !ok {
		return Validation{IsValid: false, MissingFields: []string{}, Error: unknownMetric(code)}
	}
	missing := []string{}
	for _, field := range def.RequiredInputs {
		if !inputs.Has(field) {
			missing = append(missing, field)
		}
	}
	return Validation{IsValid: len(missing) == 0, MissingFields: missing}
}

func (e *Engine) Calculate(code Code, inputs InputSet) Result {
	def, ok := e.catalog.Lookup(code)
	if !ok {
		return Result{Code: code, Error: unknownMetric(code)}
	}
	v := e.ValidateInput(code, inputs)
	if !v.IsValid {
		return Result{
			Code:          code,
			Error:         "Missing required fields: " + strings.Join(v.MissingFields, ", "),
			MissingFields: v.MissingFields,
		}
	}
	if def.Calculate == nil {
		return Result{Code: code, Error: fmt.Sprintf("no formula registered for %s", code)}
	}
	value, method, err := def.Calculate(inputs)
	if err != nil {
		return Result{Code: code, Error: err.Error()}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{Code: code, Error: fmt.Sprintf("%s produced a non-finite value", code)}
	}
	formatted := fmt.Sprintf("%g", value)
	if def.Render != nil {
		formatted = def.Render(value)
	}
	return Result{
		Code:      code,
		Success:   true,
		Value:     &value,
		Formatted: formatted,
		Method:    method,
	}
}

// CalculateAll runs Calculate for every catalog metric. A metric with no stored
// input set is calculated against an empty one and surfaces as a failed Result.
func (e *Engine) CalculateAll(inputs map[Code]InputSet) Results {
	out := make(Results, e.catalog.Len())
	for _, code := range e.catalog.Codes() {
		out[code] = e.Calculate(code, inputs[code])
	}
	return out
}

func (e *Engine) GenerateScores(results Results) ScoreReport {
	report := ScoreReport{IndividualScores: make(map[Code]Score, len(results))}
	total := 0
	for _, code := range e.catalog.Codes() {
		result, ok := results[code]
		if !ok {
			continue
		}
		score := e.score(code, result)
		report.IndividualScores[code] = score
		if score.Calculated() {
			total += score.Score
			report.CalculatedCount++
		}
	}
	if report.CalculatedCount == 0 {
		report.OverallGrade = GradeF
		report.Status = StatusInsufficientData
		return report
	}
	report.OverallScore = int(math.Round(float64(total) / float64(report.CalculatedCount)))
	report.OverallGrade = GradeFor(report.OverallScore)
	report.Status = StatusCalculated
	return report
}

func (e *Engine) score(code Code, result Result) Score {
	def, _ := e.catalog.Lookup(code)
	s := Score{Code: code, Name: def.Name}
	if !result.Success || result.Value == nil {
		s.Grade = GradeF
		s.Status = StatusError
		s.Error = result.Error
		if s.Error == "" {
			s.Error = "calculation failed"
		}
		return s
	}
	raw := *result.Value
	normalized := raw
	if def.Normalize != nil {
		normalized = def.Normalize(e.policy, raw)
	}
	s.Score = Clamp(normalized)
	s.Grade = GradeFor(s.Score)
	s.Status = StatusCalculated
	s.RawValue = &raw
	s.Formatted = result.Formatted
	return s
}

func unknownMetric(code Code) string {
	return fmt.Sprintf("%s: %q", ErrUnknownMetric, string(code))
}
