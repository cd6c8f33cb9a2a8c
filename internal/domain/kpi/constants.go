// Package kpi calculates, normalizes and grades the five workforce metrics.
// Every operation is pure; failures are reported inside Result and Score values.
package kpi

import "strings"

type Code string

const (
	CodeTTC  Code = "TTC"
	CodePDPT Code = "PDPT"
	CodeRPL  Code = "RPL"
	CodeBCI  Code = "BCI"
	CodeIMV  Code = "IMV"
)

// Codes returns the canonical metric order used for iteration and tie breaks.
func Codes() []Code {
	return []Code{CodeTTC, CodePDPT, CodeRPL, CodeBCI, CodeIMV}
}

func ParseCode(raw string) (Code, bool) {
	code := Code(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Codes() {
		if code == known {
			return code, true
		}
	}
	return code, false
}

type Format string

const (
	FormatDays       Format = "days"
	FormatPercentage Format = "percentage"
	FormatCurrency   Format = "currency"
	FormatScale      Format = "1-5_scale"
)

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

const (
	StatusCalculated       = "calculated"
	StatusError            = "error"
	StatusInsufficientData = "insufficient_data"
)

const (
	FieldRoleStartDate            = "role_start_date"
	FieldPerformanceThresholdDate = "performance_threshold_date"
	FieldPreTrainingMetric        = "pre_training_metric"
	FieldPostTrainingMetric       = "post_training_metric"
	FieldRevenueAttributed        = "revenue_attributed"
	FieldTrainedEmployeeCount     = "trained_employee_count"
	FieldCompetencyRatingScores   = "competency_rating_scores"
	FieldInternalPromotions       = "internal_promotions"
	FieldTotalRolesFilled         = "total_roles_filled"
)
