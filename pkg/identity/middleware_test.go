package identity_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeguard/dashkit/pkg/identity"
)

func TestMiddleware_InjectsUser(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	token, err := v.Issue(identity.SessionClaims{Subject: "user-9"})
	require.NoError(t, err)

	var seen identity.User
	handler := identity.Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = identity.MustCurrentUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-9", seen.ID)
}

func TestMiddleware_RejectsMissingHeader(t *testing.T) {
	t.Parallel()

	handler := identity.Middleware(newVerifier(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_RejectsInvalidToken(t *testing.T) {
	t.Parallel()

	handler := identity.Middleware(newVerifier(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentUser_MissingFromContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := identity.CurrentUser(req.Context())
	assert.False(t, ok)
	assert.Panics(t, func() { identity.MustCurrentUser(req.Context()) })
}
