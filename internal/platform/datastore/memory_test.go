package datastore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryGatewayCRUD(t *testing.T) {
	ctx := context.Background()
	g := NewMemory()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a1", "a2", "a3"} {
		if err := g.Insert(ctx, "assessments", Row{
			"id":         id,
			"tenant_id":  "t1",
			"status":     "in_progress",
			"created_at": base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if err := g.Insert(ctx, "assessments", Row{"id": "b1", "tenant_id": "t2", "status": "in_progress", "created_at": base}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rows, err := g.Select(ctx, "assessments", Query{Filter: Filter{"tenant_id": "t1"}, OrderBy: "created_at", Desc: true, Limit: 2})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 2 || rows[0].String("id") != "a3" || rows[1].String("id") != "a2" {
		t.Fatalf("unexpected ordering: %v", rows)
	}

	n, err := g.Update(ctx, "assessments", Filter{"id": "a1", "status": "in_progress"}, Row{"status": "completed"})
	if err != nil || n != 1 {
		t.Fatalf("Update: n=%d err=%v", n, err)
	}
	n, err = g.Update(ctx, "assessments", Filter{"id": "a1", "status": "in_progress"}, Row{"status": "archived"})
	if err != nil || n != 0 {
		t.Fatalf("expected guarded update to miss, n=%d err=%v", n, err)
	}
	row, err := g.SelectOne(ctx, "assessments", Filter{"id": "a1"})
	if err != nil {
		t.Fatalf("SelectOne: %v", err)
	}
	if row.String("status") != "completed" {
		t.Fatalf("expected completed, got %s", row.String("status"))
	}

	n, err = g.Delete(ctx, "assessments", Filter{"tenant_id": "t2"})
	if err != nil || n != 1 {
		t.Fatalf("Delete: n=%d err=%v", n, err)
	}
	if _, err := g.SelectOne(ctx, "assessments", Filter{"id": "b1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryGatewayRange(t *testing.T) {
	ctx := context.Background()
	g := NewMemory()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"e1", "e2", "e3", "e4"} {
		if err := g.Insert(ctx, "audit_events", Row{"id": id, "tenant_id": "t1", "created_at": base.AddDate(0, 0, i)}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	cases := []struct {
		name string
		r    Range
		want []string
	}{
		{"closed", Range{Column: "created_at", From: base.AddDate(0, 0, 1), Until: base.AddDate(0, 0, 3)}, []string{"e2", "e3"}},
		{"open start", Range{Column: "created_at", Until: base.AddDate(0, 0, 1)}, []string{"e1"}},
		{"open end", Range{Column: "created_at", From: base.AddDate(0, 0, 3)}, []string{"e4"}},
		{"unbounded", Range{Column: "created_at"}, []string{"e1", "e2", "e3", "e4"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rows, err := g.Select(ctx, "audit_events", Query{Filter: Filter{"tenant_id": "t1"}, Range: tc.r, OrderBy: "created_at"})
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			var got []string
			for _, row := range rows {
				got = append(got, row.String("id"))
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestMemoryGatewayReturnsCopies(t *testing.T) {
	ctx := context.Background()
	g := NewMemory()
	row := Row{"id": "c1", "name": "Acme"}
	if err := g.Insert(ctx, "clients", row); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	row["name"] = "mutated"

	got, err := g.SelectOne(ctx, "clients", Filter{"id": "c1"})
	if err != nil {
		t.Fatalf("SelectOne: %v", err)
	}
	got["name"] = "mutated again"

	again, _ := g.SelectOne(ctx, "clients", Filter{"id": "c1"})
	if again.String("name") != "Acme" {
		t.Fatalf("expected stored row to be isolated, got %q", again.String("name"))
	}
}

func TestMemoryGatewayNullFilterAndOffset(t *testing.T) {
	ctx := context.Background()
	g := NewMemory()
	_ = g.Insert(ctx, "notifications", Row{"id": "n1", "read_at": nil})
	_ = g.Insert(ctx, "notifications", Row{"id": "n2", "read_at": time.Now()})
	_ = g.Insert(ctx, "notifications", Row{"id": "n3"})

	rows, err := g.Select(ctx, "notifications", Query{Filter: Filter{"read_at": nil}, OrderBy: "id"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 2 || rows[0].String("id") != "n1" || rows[1].String("id") != "n3" {
		t.Fatalf("unexpected unread rows: %v", rows)
	}
	rows, _ = g.Select(ctx, "notifications", Query{OrderBy: "id", Offset: 5})
	if len(rows) != 0 {
		t.Fatalf("expected empty page past the end, got %v", rows)
	}
}

func TestRowDecode(t *testing.T) {
	row := Row{"payload": `{"TTC":{"role_start_date":"2025-01-01"}}`, "empty": ""}
	var payload map[string]map[string]any
	if err := row.Decode("payload", &payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload["TTC"]["role_start_date"] != "2025-01-01" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if err := row.Decode("empty", &payload); err != nil {
		t.Fatalf("expected empty column to be ignored, got %v", err)
	}
	if err := row.Decode("missing", &payload); err != nil {
		t.Fatalf("expected missing column to be ignored, got %v", err)
	}
}
