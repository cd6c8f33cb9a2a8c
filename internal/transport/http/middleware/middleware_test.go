package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"workforce/internal/platform/datastore"
	"workforce/internal/platform/metrics"
)

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestID(r.Context()) == "" {
			t.Fatal("expected request id in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "given-id" {
		t.Fatalf("expected caller request id to be kept, got %q", rec.Header().Get("X-Request-ID"))
	}
}

func TestLoggerRecordsMetricsAndLogs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))

	collector := metrics.New()
	handler := RequestID(Logger(collector)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

	snap := collector.Snapshot()
	if snap["requestsTotal"] != uint64(1) || snap["errorsTotal"] != uint64(1) {
		t.Fatalf("unexpected snapshot %v", snap)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a JSON log line: %v (%q)", err, buf.String())
	}
	if entry["path"] != "/api/v1/clients" || entry["status"] != float64(http.StatusBadGateway) || entry["requestId"] == "" {
		t.Fatalf("unexpected log entry %v", entry)
	}
}

func TestRecovererReturnsEnvelope(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	handler := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal_error") {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestBodyLimit(t *testing.T) {
	t.Run("streamed body fails on read", func(t *testing.T) {
		var readErr error
		handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32)))
		req.ContentLength = -1
		handler.ServeHTTP(httptest.NewRecorder(), req)

		var maxErr *http.MaxBytesError
		if !errors.As(readErr, &maxErr) {
			t.Fatalf("expected max bytes error, got %v", readErr)
		}
	})

	t.Run("declared length refused up front", func(t *testing.T) {
		called := false
		handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(strings.Repeat("x", 32))))
		if called {
			t.Fatal("handler ran for an oversized body")
		}
		if rec.Code != http.StatusRequestEntityTooLarge || !strings.Contains(rec.Body.String(), "payload_too_large") {
			t.Fatalf("expected 413 envelope, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("reads pass through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(strings.Repeat("x", 32)))
		BodyLimit(8)(noContent()).ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected GET to pass, got %d", rec.Code)
		}
	})
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureHeaders(true)(noContent()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	h := rec.Header()
	if h.Get("X-Content-Type-Options") != "nosniff" || h.Get("Strict-Transport-Security") == "" {
		t.Fatalf("missing security headers: %v", h)
	}
	if h.Get("Cache-Control") != "no-store" || !strings.HasPrefix(h.Get("Content-Security-Policy"), "default-src 'none'") {
		t.Fatalf("expected no-store and deny-all CSP, got %v", h)
	}

	rec = httptest.NewRecorder()
	SecureHeaders(false)(noContent()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("expected no HSTS outside production")
	}
}

func TestRequestHashDeterministic(t *testing.T) {
	hash1 := RequestHash([]byte("payload"))
	hash2 := RequestHash([]byte("payload"))
	hash3 := RequestHash([]byte("other"))

	if hash1 != hash2 {
		t.Fatal("expected deterministic hash")
	}
	if hash1 == hash3 {
		t.Fatal("expected different hash for different payload")
	}
}

func TestIdempotencyStoreReplayAndConflict(t *testing.T) {
	ctx := t.Context()
	store := NewIdempotencyStore(datastore.NewMemory())
	store.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	hash := RequestHash([]byte(`{"async":false}`))
	if _, found, err := store.Check(ctx, "t1", "u1", "reports.generate", "k1", hash); err != nil || found {
		t.Fatalf("expected empty store, found=%v err=%v", found, err)
	}
	resp := StoredResponse{Status: http.StatusCreated, Body: json.RawMessage(`{"success":true}`)}
	if err := store.Save(ctx, "t1", "u1", "reports.generate", "k1", hash, resp); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := store.Check(ctx, "t1", "u1", "reports.generate", "k1", hash)
	if err != nil || !found {
		t.Fatalf("expected stored response, found=%v err=%v", found, err)
	}
	if got.Status != http.StatusCreated || string(got.Body) != `{"success":true}` {
		t.Fatalf("unexpected stored response %+v", got)
	}

	if _, _, err := store.Check(ctx, "t1", "u1", "reports.generate", "k1", RequestHash([]byte("other"))); !errors.Is(err, ErrIdempotencyConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, found, _ := store.Check(ctx, "t2", "u1", "reports.generate", "k1", hash); found {
		t.Fatal("expected keys to be tenant scoped")
	}
}

func TestIdempotencyStoreIgnoresEmptyKey(t *testing.T) {
	store := NewIdempotencyStore(datastore.NewMemory())
	if err := store.Save(t.Context(), "t1", "u1", "e", "", "h", StoredResponse{Status: 200}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, found, _ := store.Check(t.Context(), "t1", "u1", "e", "", "h"); found {
		t.Fatal("expected empty key to be ignored")
	}
}
