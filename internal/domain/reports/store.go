package reports

import (
	"context"
	"errors"
	"fmt"

	"workforce/internal/platform/datastore"
)

const table = "reports"

type Store struct {
	DB datastore.Gateway
}

func NewStore(db datastore.Gateway) *Store {
	return &Store{DB: db}
}

// Insert writes the whole report as a single row.
func (s *Store) Insert(ctx context.Context, r Report) error {
	row := datastore.Row{
		"id":            r.ID,
		"tenant_id":     r.TenantID,
		"assessment_id": r.AssessmentID,
		"client_id":     r.ClientID,
		"title":         r.Title,
		"narrative":     r.Narrative,
		"artifact_key":  r.ArtifactKey,
		"generated_by":  r.GeneratedBy,
		"generated_at":  r.GeneratedAt,
	}
	columns := map[string]any{
		"client_snapshot":   r.Client,
		"executive_summary": r.ExecutiveSummary,
		"kpi_results":       r.Results,
		"kpi_scores":        r.Scores,
		"recommendations":   r.Recommendations,
		"appendix":          r.Appendix,
	}
	for col, v := range columns {
		encoded, err := datastore.JSON(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", col, err)
		}
		row[col] = encoded
	}
	return s.DB.Insert(ctx, table, row)
}

func (s *Store) Get(ctx context.Context, tenantID, id string) (Report, error) {
	row, err := s.DB.SelectOne(ctx, table, datastore.Filter{"tenant_id": tenantID, "id": id})
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return Report{}, ErrReportNotFound
		}
		return Report{}, err
	}
	return fromRow(row)
}

func (s *Store) ListByAssessment(ctx context.Context, tenantID, assessmentID string, limit, offset int) ([]Report, error) {
	rows, err := s.DB.Select(ctx, table, datastore.Query{
		Filter:  datastore.Filter{"tenant_id": tenantID, "assessment_id": assessmentID},
		OrderBy: "generated_at",
		Desc:    true,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Report, 0, len(rows))
	for _, row := range rows {
		r, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func fromRow(row datastore.Row) (Report, error) {
	r := Report{
		ID:           row.String("id"),
		TenantID:     row.String("tenant_id"),
		AssessmentID: row.String("assessment_id"),
		ClientID:     row.String("client_id"),
		Title:        row.String("title"),
		Narrative:    row.String("narrative"),
		ArtifactKey:  row.String("artifact_key"),
		GeneratedBy:  row.String("generated_by"),
		GeneratedAt:  row.Time("generated_at"),
	}
	decoders := []struct {
		col string
		dst any
	}{
		{"client_snapshot", &r.Client},
		{"executive_summary", &r.ExecutiveSummary},
		{"kpi_results", &r.Results},
		{"kpi_scores", &r.Scores},
		{"recommendations", &r.Recommendations},
		{"appendix", &r.Appendix},
	}
	for _, d := range decoders {
		if err := row.Decode(d.col, d.dst); err != nil {
			return Report{}, err
		}
	}
	return r, nil
}
