package clients

import (
	"context"
	"errors"

	"workforce/internal/platform/datastore"
)

const table = "clients"

type Store struct {
	DB datastore.Gateway
}

func NewStore(db datastore.Gateway) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, c Client) error {
	return s.DB.Insert(ctx, table, datastore.Row{
		"id":             c.ID,
		"tenant_id":      c.TenantID,
		"name":           c.Name,
		"industry":       c.Industry,
		"employee_count": c.EmployeeCount,
		"contact_name":   c.ContactName,
		"contact_email":  c.ContactEmail,
		"created_at":     c.CreatedAt,
		"updated_at":     c.UpdatedAt,
	})
}

func (s *Store) Get(ctx context.Context, tenantID, id string) (Client, error) {
	row, err := s.DB.SelectOne(ctx, table, datastore.Filter{"tenant_id": tenantID, "id": id})
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return Client{}, ErrClientNotFound
		}
		return Client{}, err
	}
	return fromRow(row), nil
}

func (s *Store) List(ctx context.Context, tenantID string, limit, offset int) ([]Client, error) {
	rows, err := s.DB.Select(ctx, table, datastore.Query{
		Filter:  datastore.Filter{"tenant_id": tenantID},
		OrderBy: "name",
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Client, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, c Client) error {
	n, err := s.DB.Update(ctx, table, datastore.Filter{"tenant_id": c.TenantID, "id": c.ID}, datastore.Row{
		"name":           c.Name,
		"industry":       c.Industry,
		"employee_count": c.EmployeeCount,
		"contact_name":   c.ContactName,
		"contact_email":  c.ContactEmail,
		"updated_at":     c.UpdatedAt,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrClientNotFound
	}
	return nil
}

func fromRow(row datastore.Row) Client {
	return Client{
		ID:            row.String("id"),
		TenantID:      row.String("tenant_id"),
		Name:          row.String("name"),
		Industry:      row.String("industry"),
		EmployeeCount: row.Int("employee_count"),
		ContactName:   row.String("contact_name"),
		ContactEmail:  row.String("contact_email"),
		CreatedAt:     row.Time("created_at"),
		UpdatedAt:     row.Time("updated_at"),
	}
}
