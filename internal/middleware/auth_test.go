package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aura-social/liveroom/internal/auth"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func identityEcho(t *testing.T, wantID, wantName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, wantID, UserID(r.Context()))
		require.Equal(t, wantName, UserName(r.Context()))
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthBearerHeader(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, "u1", "Alice", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/rooms/r1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(testSecret, identityEcho(t, "u1", "Alice"))(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthSubprotocolFallback(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, "u2", "Bob", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/rooms/r1/ws", nil)
	req.Header.Set("Sec-WebSocket-Protocol", token)
	rec := httptest.NewRecorder()

	Auth(testSecret, identityEcho(t, "u2", "Bob"))(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/rooms/r1", nil)
	rec := httptest.NewRecorder()

	called := false
	Auth(testSecret, func(w http.ResponseWriter, r *http.Request) { called = true })(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)
}

func TestAuthBadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/rooms/r1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	Auth(testSecret, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
