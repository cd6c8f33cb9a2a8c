package reports

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, r Report) error
	Get(ctx context.Context, tenantID, id string) (Report, error)
	ListByAssessment(ctx context.Context, tenantID, assessmentID string, limit, offset int) ([]Report, error)
}
