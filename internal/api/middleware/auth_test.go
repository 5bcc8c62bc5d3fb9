package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func protectedHandler(t *testing.T, wantRole Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			t.Error("principal missing from context")
		} else if principal.Role != wantRole {
			t.Errorf("role = %s, want %s", principal.Role, wantRole)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAuth(t *testing.T) {
	auth := NewStaticAuthenticator("admin-secret", "reader-secret")

	tests := []struct {
		name           string
		header         string
		wantStatusCode int
	}{
		{
			name:           "valid admin token",
			header:         "Bearer admin-secret",
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:           "missing header",
			header:         "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			header:         "Basic admin-secret",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "unknown token",
			header:         "Bearer wrong",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAuth(auth)(protectedHandler(t, RoleAdmin))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}
			if tt.wantStatusCode == http.StatusUnauthorized {
				if got := rec.Header().Get("Content-Type"); got != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", got)
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	auth := NewStaticAuthenticator("admin-secret", "reader-secret")

	tests := []struct {
		name           string
		token          string
		wantStatusCode int
	}{
		{
			name:           "admin allowed",
			token:          "admin-secret",
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:           "reader forbidden",
			token:          "reader-secret",
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAuth(auth)(RequireRole(RoleAdmin)(protectedHandler(t, RoleAdmin)))

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}
		})
	}
}

func TestStaticAuthenticator_DisabledTokens(t *testing.T) {
	auth := NewStaticAuthenticator("", "")
	if _, ok := auth.Authenticate(""); ok {
		t.Error("empty configured tokens must never authenticate")
	}
}
