package assessments

import (
	"time"

	"workforce/internal/domain/kpi"
)

type Assessment struct {
	ID          string                    `json:"id"`
	TenantID    string                    `json:"tenantId"`
	ClientID    string                    `json:"clientId"`
	Title       string                    `json:"title"`
	Status      Status                    `json:"status"`
	KPIData     map[kpi.Code]kpi.InputSet `json:"kpiData"`
	Version     int                       `json:"version"`
	CreatedBy   string                    `json:"createdBy"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
	CompletedAt *time.Time                `json:"completedAt,omitempty"`
	ArchivedAt  *time.Time                `json:"archivedAt,omitempty"`
}

// Inputs returns a deep-enough copy of the stored input sets for the engine.
func (a Assessment) Inputs() map[kpi.Code]kpi.InputSet {
	out := make(map[kpi.Code]kpi.InputSet, len(a.KPIData))
	for code, set := range a.KPIData {
		out[code] = set.Clone()
	}
	return out
}

type ListFilter struct {
	ClientID string
	Status   Status
}

type Evaluation struct {
	AssessmentID string          `json:"assessmentId"`
	Results      kpi.Results     `json:"results"`
	Scores       kpi.ScoreReport `json:"scores"`
}
