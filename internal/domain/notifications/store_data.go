package notifications

import (
	"context"
	"errors"
	"time"

	"workforce/internal/platform/datastore"
)

const table = "notifications"

var ErrNotificationNotFound = errors.New("notification not found")

func (s *Store) CreateNotification(ctx context.Context, tenantID, userID string, n Notification) error {
	return s.DB.Insert(ctx, table, datastore.Row{
		"id":         n.ID,
		"tenant_id":  tenantID,
		"user_id":    userID,
		"type":       n.Type,
		"title":      n.Title,
		"body":       n.Body,
		"read_at":    nil,
		"created_at": n.CreatedAt,
	})
}

func (s *Store) UserEmail(ctx context.Context, tenantID, userID string) (string, error) {
	row, err := s.DB.SelectOne(ctx, "users", datastore.Filter{"tenant_id": tenantID, "id": userID})
	if err != nil {
		return "", err
	}
	return row.String("email"), nil
}

func (s *Store) ListNotifications(ctx context.Context, tenantID, userID string, unreadOnly bool, limit, offset int) ([]Notification, error) {
	filter := datastore.Filter{"tenant_id": tenantID, "user_id": userID}
	if unreadOnly {
		filter["read_at"] = nil
	}
	rows, err := s.DB.Select(ctx, table, datastore.Query{
		Filter:  filter,
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, Notification{
			ID:        row.String("id"),
			Type:      row.String("type"),
			Title:     row.String("title"),
			Body:      row.String("body"),
			ReadAt:    row.TimePtr("read_at"),
			CreatedAt: row.Time("created_at"),
		})
	}
	return out, nil
}

func (s *Store) MarkRead(ctx context.Context, tenantID, userID, notificationID string) error {
	n, err := s.DB.Update(ctx, table,
		datastore.Filter{"tenant_id": tenantID, "user_id": userID, "id": notificationID},
		datastore.Row{"read_at": time.Now().UTC()},
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
