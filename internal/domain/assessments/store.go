package assessments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workforce/internal/domain/kpi"
	"workforce/internal/platform/datastore"
)

const table = "assessments"

type Store struct {
	DB datastore.Gateway
}

func NewStore(db datastore.Gateway) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, a Assessment) error {
	data, err := encodeKPIData(a.KPIData)
	if err != nil {
		return err
	}
	return s.DB.Insert(ctx, table, datastore.Row{
		"id":           a.ID,
		"tenant_id":    a.TenantID,
		"client_id":    a.ClientID,
		"title":        a.Title,
		"status":       string(a.Status),
		"kpi_data":     data,
		"version":      a.Version,
		"created_by":   a.CreatedBy,
		"created_at":   a.CreatedAt,
		"updated_at":   a.UpdatedAt,
		"completed_at": nil,
		"archived_at":  nil,
	})
}

func (s *Store) Get(ctx context.Context, tenantID, id string) (Assessment, error) {
	row, err := s.DB.SelectOne(ctx, table, datastore.Filter{"tenant_id": tenantID, "id": id})
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return Assessment{}, ErrAssessmentNotFound
		}
		return Assessment{}, err
	}
	return fromRow(row)
}

func (s *Store) List(ctx context.Context, tenantID string, filter ListFilter, limit, offset int) ([]Assessment, error) {
	where := datastore.Filter{"tenant_id": tenantID}
	if filter.ClientID != "" {
		where["client_id"] = filter.ClientID
	}
	if filter.Status != "" {
		where["status"] = string(filter.Status)
	}
	rows, err := s.DB.Select(ctx, table, datastore.Query{
		Filter:  where,
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Assessment, 0, len(rows))
	for _, row := range rows {
		a, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode assessment %s: %w", row.String("id"), err)
		}
		out = append(out, a)
	}
	return out, nil
}

// UpdateKPIData writes the input map only if the assessment is still in
// progress and still at version. A stale version yields ErrConcurrentUpdate.
func (s *Store) UpdateKPIData(ctx context.Context, tenantID, id string, data map[kpi.Code]kpi.InputSet, version int, at time.Time) error {
	encoded, err := encodeKPIData(data)
	if err != nil {
		return err
	}
	n, err := s.DB.Update(ctx, table,
		datastore.Filter{"tenant_id": tenantID, "id": id, "status": string(StatusInProgress), "version": version},
		datastore.Row{"kpi_data": encoded, "version": version + 1, "updated_at": at},
	)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if current.Status != StatusInProgress {
		return ErrAssessmentLocked
	}
	return ErrConcurrentUpdate
}

// UpdateStatus moves the assessment only if it is still in the from state.
func (s *Store) UpdateStatus(ctx context.Context, tenantID, id string, from, to Status, at time.Time) error {
	changes := datastore.Row{"status": string(to), "updated_at": at}
	switch to {
	case StatusCompleted:
		changes["completed_at"] = at
	case StatusArchived:
		changes["archived_at"] = at
	}
	n, err := s.DB.Update(ctx, table, datastore.Filter{"tenant_id": tenantID, "id": id, "status": string(from)}, changes)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func encodeKPIData(data map[kpi.Code]kpi.InputSet) (string, error) {
	if data == nil {
		data = map[kpi.Code]kpi.InputSet{}
	}
	encoded, err := datastore.JSON(data)
	if err != nil {
		return "", fmt.Errorf("encode kpi data: %w", err)
	}
	return encoded, nil
}

func fromRow(row datastore.Row) (Assessment, error) {
	a := Assessment{
		ID:          row.String("id"),
		TenantID:    row.String("tenant_id"),
		ClientID:    row.String("client_id"),
		Title:       row.String("title"),
		Status:      Status(row.String("status")),
		Version:     row.Int("version"),
		CreatedBy:   row.String("created_by"),
		CreatedAt:   row.Time("created_at"),
		UpdatedAt:   row.Time("updated_at"),
		CompletedAt: row.TimePtr("completed_at"),
		ArchivedAt:  row.TimePtr("archived_at"),
		KPIData:     map[kpi.Code]kpi.InputSet{},
	}
	if err := row.Decode("kpi_data", &a.KPIData); err != nil {
		return Assessment{}, err
	}
	return a, nil
}
