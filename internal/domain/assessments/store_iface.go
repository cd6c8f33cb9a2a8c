package assessments

import (
	"context"
	"time"

	"workforce/internal/domain/kpi"
)

type StoreAPI interface {
	Insert(ctx context.Context, a Assessment) error
	Get(ctx context.Context, tenantID, id string) (Assessment, error)
	List(ctx context.Context, tenantID string, filter ListFilter, limit, offset int) ([]Assessment, error)
	UpdateKPIData(ctx context.Context, tenantID, id string, data map[kpi.Code]kpi.InputSet, version int, at time.Time) error
	UpdateStatus(ctx context.Context, tenantID, id string, from, to Status, at time.Time) error
}
