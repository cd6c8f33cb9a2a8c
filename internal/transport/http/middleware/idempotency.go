package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"workforce/internal/platform/datastore"
)

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

const idempotencyTable = "idempotency_keys"

// StoredResponse is a replayable response recorded under an idempotency key.
type StoredResponse struct {
	Status int
	Body   json.RawMessage
}

type IdempotencyStore struct {
	db  datastore.Gateway
	now func() time.Time
}

func NewIdempotencyStore(db datastore.Gateway) *IdempotencyStore {
	return &IdempotencyStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *IdempotencyStore) Check(ctx context.Context, tenantID, userID, endpoint, key, requestHash string) (StoredResponse, bool, error) {
	if s == nil || s.db == nil || key == "" {
		return StoredResponse{}, false, nil
	}
	row, err := s.db.SelectOne(ctx, idempotencyTable, datastore.Filter{
		"tenant_id":       tenantID,
		"user_id":         userID,
		"endpoint":        endpoint,
		"idempotency_key": key,
	})
	if errors.Is(err, datastore.ErrNotFound) {
		return StoredResponse{}, false, nil
	}
	if err != nil {
		return StoredResponse{}, false, err
	}
	if row.String("request_hash") != requestHash {
		return StoredResponse{}, false, ErrIdempotencyConflict
	}
	return StoredResponse{
		Status: row.Int("response_status"),
		Body:   json.RawMessage(row.String("response_body")),
	}, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, tenantID, userID, endpoint, key, requestHash string, resp StoredResponse) error {
	if s == nil || s.db == nil || key == "" {
		return nil
	}
	err := s.db.Insert(ctx, idempotencyTable, datastore.Row{
		"tenant_id":       tenantID,
		"user_id":         userID,
		"endpoint":        endpoint,
		"idempotency_key": key,
		"request_hash":    requestHash,
		"response_status": resp.Status,
		"response_body":   string(resp.Body),
		"created_at":      s.now(),
	})
	if err == nil {
		return nil
	}
	// A concurrent request may have stored the same key first.
	if _, found, checkErr := s.Check(ctx, tenantID, userID, endpoint, key, requestHash); checkErr != nil {
		return checkErr
	} else if found {
		return nil
	}
	return err
}
