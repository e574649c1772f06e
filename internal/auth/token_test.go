package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExtractUserIDFromHeader(t *testing.T) {
	extractor := NewTokenExtractor()
	userID := uuid.New()

	t.Run("Valid Bearer Token", func(t *testing.T) {
		got, err := extractor.ExtractUserIDFromHeader("Bearer " + userID.String())
		assert.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("Scheme Is Case Insensitive", func(t *testing.T) {
		got, err := extractor.ExtractUserIDFromHeader("bearer " + userID.String())
		assert.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("Missing Scheme", func(t *testing.T) {
		_, err := extractor.ExtractUserIDFromHeader(userID.String())
		assert.Error(t, err)
	})

	t.Run("Wrong Scheme", func(t *testing.T) {
		_, err := extractor.ExtractUserIDFromHeader("Basic " + userID.String())
		assert.Error(t, err)
	})

	t.Run("Empty Token", func(t *testing.T) {
		_, err := extractor.ExtractUserIDFromHeader("Bearer ")
		assert.Error(t, err)
	})

	t.Run("Token Is Not A UUID", func(t *testing.T) {
		_, err := extractor.ExtractUserIDFromHeader("Bearer not-a-uuid")
		assert.Error(t, err)
	})
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []UserRole{RoleAdministrator, RoleManager, RoleSpecialist, RoleDirector} {
		assert.True(t, IsValidRole(role))
	}
	assert.False(t, IsValidRole(UserRole("intern")))
	assert.False(t, IsValidRole(UserRole("")))
}
