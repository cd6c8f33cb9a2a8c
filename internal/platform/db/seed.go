package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"workforce/internal/platform/datastore"
)

// Seed ensures the default tenant exists and returns its id.
func Seed(ctx context.Context, store datastore.Gateway, tenantName string) (string, error) {
	name := strings.TrimSpace(tenantName)
	if name == "" {
		return "", errors.New("seed tenant name is required")
	}
	row, err := store.SelectOne(ctx, "tenants", datastore.Filter{"name": name})
	if err == nil {
		return row.String("id"), nil
	}
	if !errors.Is(err, datastore.ErrNotFound) {
		return "", err
	}
	id := uuid.NewString()
	if err := store.Insert(ctx, "tenants", datastore.Row{
		"id":         id,
		"name":       name,
		"created_at": time.Now().UTC(),
	}); err != nil {
		return "", err
	}
	return id, nil
}

// SeedUser ensures a user with the given email exists in the tenant and
// returns its id. An existing user keeps its role.
func SeedUser(ctx context.Context, store datastore.Gateway, tenantID, email, role string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errors.New("seed user email is required")
	}
	row, err := store.SelectOne(ctx, "users", datastore.Filter{"tenant_id": tenantID, "email": email})
	if err == nil {
		return row.String("id"), nil
	}
	if !errors.Is(err, datastore.ErrNotFound) {
		return "", err
	}
	id := uuid.NewString()
	if err := store.Insert(ctx, "users", datastore.Row{
		"id":           id,
		"tenant_id":    tenantID,
		"email":        email,
		"display_name": "Administrator",
		"role":         role,
		"created_at":   time.Now().UTC(),
	}); err != nil {
		return "", err
	}
	return id, nil
}
