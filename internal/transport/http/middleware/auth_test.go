package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workforce/internal/domain/auth"
	"workforce/internal/transport/http/api"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", TenantID: "t1", Role: auth.RoleAnalyst}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	called := false
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != "u1" || user.TenantID != "t1" || user.Role != auth.RoleAnalyst {
			t.Fatalf("unexpected user: %+v", user)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("expected handler to run")
	}
}

func TestAuthMiddlewareMissingOrInvalidToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

type stubPermissions struct {
	allowed bool
	err     error
}

func (s stubPermissions) HasPermission(context.Context, string, string) (bool, error) {
	return s.allowed, s.err
}

func TestRequirePermission(t *testing.T) {
	cases := []struct {
		name   string
		user   bool
		store  stubPermissions
		status int
		code   string
	}{
		{name: "anonymous", user: false, store: stubPermissions{allowed: true}, status: http.StatusUnauthorized, code: "unauthorized"},
		{name: "store error", user: true, store: stubPermissions{err: errors.New("down")}, status: http.StatusInternalServerError, code: "permission_error"},
		{name: "denied", user: true, store: stubPermissions{}, status: http.StatusForbidden, code: "forbidden"},
		{name: "allowed", user: true, store: stubPermissions{allowed: true}, status: http.StatusNoContent},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			handler := RequirePermission(auth.PermReportsGenerate, tc.store)(noContent())
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.user {
				req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u1", TenantID: "t1", Role: auth.RoleViewer}))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if tc.code == "" {
				return
			}
			var env api.Envelope
			if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Success || env.Error == nil || env.Error.Code != tc.code {
				t.Fatalf("unexpected envelope %+v", env)
			}
		})
	}
}

func TestRequirePermissionWithRoleTable(t *testing.T) {
	set := auth.NewPermissionSet(auth.RolePermissions)
	handler := RequirePermission(auth.PermAuditRead, set)(noContent())

	for role, want := range map[string]int{auth.RoleAdmin: http.StatusNoContent, auth.RoleAnalyst: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u1", TenantID: "t1", Role: role}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("role %s: expected %d, got %d", role, want, rec.Code)
		}
	}
}
