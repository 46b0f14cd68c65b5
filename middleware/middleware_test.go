package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Dosada05/football-cup/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signedToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func protected(roles ...models.UserRole) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-User-ID", strconv.Itoa(id))
		w.WriteHeader(http.StatusNoContent)
	})
	return Authenticate(testSecret)(Authorize(roles...)(ok))
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	valid := jwt.MapClaims{"user_id": 7, "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	viewer := jwt.MapClaims{"user_id": 8, "role": "viewer", "exp": time.Now().Add(time.Hour).Unix()}
	expired := jwt.MapClaims{"user_id": 7, "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"admin token", "Bearer " + signedToken(t, testSecret, valid), http.StatusNoContent},
		{"viewer token", "Bearer " + signedToken(t, testSecret, viewer), http.StatusForbidden},
		{"expired token", "Bearer " + signedToken(t, testSecret, expired), http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signedToken(t, []byte("other"), valid), http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/phases/final", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected(models.RoleAdmin).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := GetUserIDFromContext(req.Context())
	assert.Error(t, err)

	ctx := WithClaims(req.Context(), jwt.MapClaims{"user_id": float64(12), "role": "viewer"})
	id, err := GetUserIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	role, err := GetUserRoleFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, role)

	_, err = GetUserIDFromContext(WithClaims(req.Context(), jwt.MapClaims{"user_id": 1.5}))
	assert.Error(t, err)

	_, err = GetUserRoleFromContext(WithClaims(req.Context(), jwt.MapClaims{"role": "organizer"}))
	assert.Error(t, err)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(2)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:5002"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2:5000"), "other clients keep their own bucket")

	clock = clock.Add(30 * time.Second)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:5003"), "a token refills after half a minute")
}
