package kpi

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

func timeToCompetency(in InputSet) (float64, string, error) {
	start, err := in.Date(FieldRoleStartDate)
	if err != nil {
		return 0, "", err
	}
	end, err := in.Date(FieldPerformanceThresholdDate)
	if err != nil {
		return 0, "", err
	}
	return float64(daysBetween(start, end)), "date_difference", nil
}

func performanceDelta(in InputSet) (float64, string, error) {
	pre, err := in.Number(FieldPreTrainingMetric)
	if err != nil {
		return 0, "", err
	}
	post, err := in.Number(FieldPostTrainingMetric)
	if err != nil {
		return 0, "", err
	}
	if pre == 0 {
		return 0, "", fmt.Errorf("%s cannot be zero", FieldPreTrainingMetric)
	}
	return (post - pre) / pre * 100, "percentage_change", nil
}

func revenuePerLearner(in InputSet) (float64, string, error) {
	revenue, err := in.Number(FieldRevenueAttributed)
	if err != nil {
		return 0, "", err
	}
	count, err := in.Number(FieldTrainedEmployeeCount)
	if err != nil {
		return 0, "", err
	}
	if count == 0 {
		return 0, "", fmt.Errorf("%s cannot be zero", FieldTrainedEmployeeCount)
	}
	return revenue / count, "revenue_division", nil
}

func behavioralChange(in InputSet) (float64, string, error) {
	ratings, err := in.Ratings(FieldCompetencyRatingScores)
	if err != nil {
		return 0, "", err
	}
	if len(ratings) == 0 {
		return 0, "", errors.New("competency_rating_scores cannot be empty")
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings)), "average_rating", nil
}

func internalMobility(in InputSet) (float64, string, error) {
	promotions, err := in.Number(FieldInternalPromotions)
	if err != nil {
		return 0, "", err
	}
	total, err := in.Number(FieldTotalRolesFilled)
	if err != nil {
		return 0, "", err
	}
	if total == 0 {
		return 0, "", fmt.Errorf("%s cannot be zero", FieldTotalRolesFilled)
	}
	return promotions / total * 100, "promotion_ratio", nil
}

func normalizeTTC(p Policy, raw float64) float64 {
	return 100 - ((raw - p.TTC.IdealDays) / p.TTC.SpanDays * 100)
}

func normalizePDPT(p Policy, raw float64) float64 {
	return raw / p.PDPT.TargetPercent * 100
}

func normalizeRPL(p Policy, raw float64) float64 {
	return raw / p.RPL.TargetRevenue * 100
}

func normalizeBCI(p Policy, raw float64) float64 {
	return (raw - p.BCI.ScaleMin) / (p.BCI.ScaleMax - p.BCI.ScaleMin) * 100
}

func normalizeIMV(_ Policy, raw float64) float64 {
	return raw
}

func formatDays(v float64) string {
	return fmt.Sprintf("%d days", int64(v))
}

func formatPercentage(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func formatCurrency(v float64) string {
	rounded := math.Round(v*100) / 100
	if rounded < 0 {
		return "-$" + humanize.Commaf(-rounded)
	}
	return "$" + humanize.Commaf(rounded)
}

func formatScale(v float64) string {
	return fmt.Sprintf("%.1f/5.0", v)
}

// Clamp bounds a normalized value to [0,100] and rounds it to the nearest integer.
func Clamp(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(0, math.Min(100, v))
	return int(math.Round(v))
}

func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}

func daysBetween(start, end time.Time) int {
	return int(math.Ceil(math.Abs(end.Sub(start).Hours()) / 24))
}
