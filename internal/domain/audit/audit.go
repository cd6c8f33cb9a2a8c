package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"workforce/internal/platform/datastore"
)

const table = "audit_events"

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorUser  string
	// From and Until bound created_at to [From, Until); zero is open.
	From  time.Time
	Until time.Time
}

type Service struct {
	DB  datastore.Gateway
	now func() time.Time
}

func New(db datastore.Gateway) *Service {
	return &Service{DB: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Record(ctx context.Context, tenantID, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	row := datastore.Row{
		"id":            uuid.NewString(),
		"tenant_id":     tenantID,
		"actor_user_id": actorID,
		"action":        action,
		"entity_type":   entityType,
		"entity_id":     entityID,
		"request_id":    requestID,
		"ip":            ip,
		"before_json":   nil,
		"after_json":    nil,
		"created_at":    s.now(),
	}
	if before != nil {
		payload, err := datastore.JSON(before)
		if err != nil {
			return err
		}
		row["before_json"] = payload
	}
	if after != nil {
		payload, err := datastore.JSON(after)
		if err != nil {
			return err
		}
		row["after_json"] = payload
	}
	return s.DB.Insert(ctx, table, row)
}

func (s *Service) List(ctx context.Context, tenantID string, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	rows, err := s.DB.Select(ctx, table, datastore.Query{
		Filter:  buildFilter(tenantID, filter),
		Range:   datastore.Range{Column: "created_at", From: filter.From, Until: filter.Until},
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(rows))
	for _, row := range rows {
		evt := Event{
			ID:         row.String("id"),
			ActorID:    row.String("actor_user_id"),
			Action:     row.String("action"),
			EntityType: row.String("entity_type"),
			EntityID:   row.String("entity_id"),
			RequestID:  row.String("request_id"),
			IP:         row.String("ip"),
			CreatedAt:  row.Time("created_at"),
		}
		if includeDetails {
			evt.Before = rawJSON(row.String("before_json"))
			evt.After = rawJSON(row.String("after_json"))
		}
		out = append(out, evt)
	}
	return out, nil
}

func buildFilter(tenantID string, filter Filter) datastore.Filter {
	out := datastore.Filter{"tenant_id": tenantID}
	if filter.Action != "" {
		out["action"] = filter.Action
	}
	if filter.EntityType != "" {
		out["entity_type"] = filter.EntityType
	}
	if filter.EntityID != "" {
		out["entity_id"] = filter.EntityID
	}
	if filter.ActorUser != "" {
		out["actor_user_id"] = filter.ActorUser
	}
	return out
}

func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}
