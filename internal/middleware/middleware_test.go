package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkempf/fintrack/internal/models"
	"github.com/dkempf/fintrack/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedHandler(t *testing.T, tokens *token.Service) (http.Handler, *token.Claims) {
	t.Helper()
	captured := &token.Claims{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok, "claims missing from context")
		*captured = *claims
		w.WriteHeader(http.StatusOK)
	})
	return Authenticate(tokens)(next), captured
}

func TestAuthenticateValidToken(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	handler, captured := newAuthedHandler(t, tokens)

	tokenString, _, err := tokens.Issue(&models.User{ID: 7, Username: "jonas", IsAdmin: false})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), captured.UserID)
	assert.Equal(t, "jonas", captured.Username)
	assert.False(t, captured.Admin)
}

func TestAuthenticateRejections(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	expired := token.NewService("test-secret", -time.Minute)
	otherSecret := token.NewService("other-secret", time.Hour)

	expiredToken, _, err := expired.Issue(&models.User{ID: 1, Username: "jonas"})
	require.NoError(t, err)
	foreignToken, _, err := otherSecret.Issue(&models.User{ID: 1, Username: "jonas"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		detail string
	}{
		{"missing header", "", "authorization header required"},
		{"non-bearer scheme", "Basic dXNlcjpwYXNz", "authorization header must use Bearer scheme"},
		{"empty bearer", "Bearer ", "authorization header must use Bearer scheme"},
		{"garbage token", "Bearer not-a-token", "invalid token"},
		{"wrong secret", "Bearer " + foreignToken, "invalid token"},
		{"expired token", "Bearer " + expiredToken, "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downstream := false
			handler := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				downstream = true
			}))

			req := httptest.NewRequest("GET", "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			// Expired and invalid differ in detail only, never in status.
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.detail)
			assert.False(t, downstream, "downstream handler must not run")
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)

	downstream := false
	handler := Authenticate(tokens)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downstream = true
		w.WriteHeader(http.StatusOK)
	})))

	adminToken, _, err := tokens.Issue(&models.User{ID: 1, Username: "root", IsAdmin: true})
	require.NoError(t, err)
	userToken, _, err := tokens.Issue(&models.User{ID: 2, Username: "jonas", IsAdmin: false})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, downstream)

	req = httptest.NewRequest("GET", "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, downstream)
}

func TestRequireAdminWithoutClaims(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("downstream handler must not run")
	}))

	req := httptest.NewRequest("GET", "/admin/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
