package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClaims struct {
	userID uuid.UUID
	role   string
}

func (c *fakeClaims) GetUserID() uuid.UUID { return c.userID }
func (c *fakeClaims) GetRole() string      { return c.role }

type fakeValidator struct {
	claims *fakeClaims
	err    error
}

func (v *fakeValidator) ValidateToken(string) (ClaimsReader, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	userID := uuid.New()
	validator := &fakeValidator{claims: &fakeClaims{userID: userID, role: "admin"}}

	var gotID uuid.UUID
	var gotRole string
	handler := Authenticate(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserID(r)
		require.NoError(t, err)
		role, err := GetRole(r)
		require.NoError(t, err)
		gotID, gotRole = id, role
	}))

	req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
	req.Header.Set("Authorization", "Bearer token123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "admin", gotRole)
}

func TestAuthenticateRejects(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		validator *fakeValidator
	}{
		{"missing header", "", &fakeValidator{}},
		{"not bearer", "Basic abc123", &fakeValidator{}},
		{"empty token", "Bearer ", &fakeValidator{}},
		{"invalid token", "Bearer bad", &fakeValidator{err: errors.New("expired")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Authenticate(tt.validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticateCaseInsensitiveBearer(t *testing.T) {
	validator := &fakeValidator{claims: &fakeClaims{userID: uuid.New(), role: "user"}}
	handler := Authenticate(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
	req.Header.Set("Authorization", "bearer token123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	userID := uuid.New()
	called := false
	handler := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req = req.WithContext(WithIdentity(req.Context(), userID, "user"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req = req.WithContext(WithIdentity(req.Context(), userID, "admin"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	handler := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
