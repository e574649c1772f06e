package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	called := false
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	user := &User{FullName: "Test User", Email: "test@example.com", Role: RoleManager}
	user.ID = uuid.New()

	called := false
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	ctx := context.WithValue(req.Context(), AuthContextKey, &AuthContext{User: user})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestActorID(t *testing.T) {
	assert.Nil(t, ActorID(context.Background()))

	user := &User{FullName: "Test User", Email: "test@example.com", Role: RoleSpecialist}
	user.ID = uuid.New()
	ctx := context.WithValue(context.Background(), AuthContextKey, &AuthContext{User: user})

	actorID := ActorID(ctx)
	if assert.NotNil(t, actorID) {
		assert.Equal(t, user.ID, *actorID)
	}
}
