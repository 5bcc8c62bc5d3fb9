package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Role classifies what a principal may do.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Principal identifies an authenticated caller.
type Principal struct {
	ID   uuid.UUID
	Name string
	Role Role
}

// Authenticator resolves a bearer token to a principal.
type Authenticator interface {
	Authenticate(token string) (*Principal, bool)
}

// StaticAuthenticator validates tokens against fixed values from configuration.
type StaticAuthenticator struct {
	admin  *staticToken
	reader *staticToken
}

type staticToken struct {
	token     string
	principal Principal
}

// NewStaticAuthenticator builds an authenticator from the configured admin
// and reader tokens. Empty tokens are disabled.
func NewStaticAuthenticator(adminToken, readerToken string) *StaticAuthenticator {
	a := &StaticAuthenticator{}
	if adminToken != "" {
		a.admin = &staticToken{
			token: adminToken,
			principal: Principal{
				ID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte("movieverse/admin")),
				Name: "admin",
				Role: RoleAdmin,
			},
		}
	}
	if readerToken != "" {
		a.reader = &staticToken{
			token: readerToken,
			principal: Principal{
				ID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte("movieverse/reader")),
				Name: "reader",
				Role: RoleUser,
			},
		}
	}
	return a
}

func (a *StaticAuthenticator) Authenticate(token string) (*Principal, bool) {
	for _, st := range []*staticToken{a.admin, a.reader} {
		if st == nil {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(st.token), []byte(token)) == 1 {
			p := st.principal
			return &p, true
		}
	}
	return nil, false
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved principal in the request context.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Authorization required")
				return
			}

			principal, ok := auth.Authenticate(token)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose principal lacks the role.
// It must be used AFTER RequireAuth in the chain.
func RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal.Role != role {
				writeJSONError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*Principal)
	return principal, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

// writeJSONError emits the API's standard error body without importing the
// handler package.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
