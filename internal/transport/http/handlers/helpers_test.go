package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workforce/internal/app/server"
	"workforce/internal/domain/auth"
	"workforce/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	RequestID string `json:"requestId"`
}

func testConfig() config.Config {
	return config.Config{
		Environment:        "test",
		LogLevel:           "error",
		StorageDriver:      config.StorageMemory,
		RunSeed:            true,
		SeedTenantName:     "Test Tenant",
		SeedAdminEmail:     "admin@example.com",
		JWTSecret:          "journey-secret",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
		MetricsEnabled:     true,
		ObjectStore:        config.ObjectStoreNone,
		JobQueueSize:       8,
	}
}

type harness struct {
	t      *testing.T
	app    *server.App
	server *httptest.Server
	client *http.Client
}

func newHarness(t *testing.T, cfg config.Config) *harness {
	t.Helper()
	app, err := server.New(t.Context(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	ts := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		ts.Close()
		app.Close()
	})
	return &harness{t: t, app: app, server: ts, client: ts.Client()}
}

func (h *harness) token(userID, role string) string {
	h.t.Helper()
	token, err := auth.GenerateToken(h.app.Config.JWTSecret, auth.Claims{UserID: userID, TenantID: h.app.TenantID, Role: role}, time.Hour)
	if err != nil {
		h.t.Fatalf("token: %v", err)
	}
	return token
}

func (h *harness) adminToken() string {
	return h.token(h.app.AdminUserID, auth.RoleAdmin)
}

func (h *harness) do(method, path, token string, body any, headers map[string]string) *http.Response {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		h.t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		h.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// call performs a JSON request, asserts the status and decodes the envelope data into out.
func (h *harness) call(method, path, token string, body any, want int, out any) envelope {
	h.t.Helper()
	resp := h.do(method, path, token, body, nil)
	defer resp.Body.Close()
	return h.decode(resp, method+" "+path, want, out)
}

func (h *harness) decode(resp *http.Response, label string, want int, out any) envelope {
	h.t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		h.t.Fatalf("%s: read body: %v", label, err)
	}
	if resp.StatusCode != want {
		h.t.Fatalf("%s: expected status %d, got %d: %s", label, want, resp.StatusCode, raw)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.t.Fatalf("%s: decode envelope: %v (%s)", label, err, raw)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			h.t.Fatalf("%s: decode data: %v", label, err)
		}
	}
	return env
}
