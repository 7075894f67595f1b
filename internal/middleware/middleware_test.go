package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCallerIdentityRejectsAnonymous(t *testing.T) {
	handler := WithCallerIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without an identity")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/bob", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithCallerIdentityLiftsHeaderIntoContext(t *testing.T) {
	var seen string
	handler := WithCallerIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserClaimsKey).(string)
		require.True(t, ok)
		seen = userID
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/bob", nil)
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", seen)
}

func TestWithRequestIdTagsRequest(t *testing.T) {
	var fromCtx, fromHeader string
	handler := WithRequestId(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx, _ = r.Context().Value(RequestIdKey).(string)
		fromHeader = r.Header.Get("X-Request-ID")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEmpty(t, fromCtx)
	assert.Equal(t, fromCtx, fromHeader)
}
