package auth

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TokenExtractor parses Authorization headers into user IDs.
// The current token format is an opaque bearer token carrying the user's
// ID; swapping in JWT later only changes this type.
type TokenExtractor struct{}

func NewTokenExtractor() *TokenExtractor {
	return &TokenExtractor{}
}

// ExtractUserIDFromHeader parses "Bearer <token>" and returns the user ID.
func (e *TokenExtractor) ExtractUserIDFromHeader(authHeader string) (uuid.UUID, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return uuid.Nil, fmt.Errorf("authorization header must be of the form 'Bearer <token>'")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return uuid.Nil, fmt.Errorf("bearer token is empty")
	}

	userID, err := uuid.Parse(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid bearer token: %w", err)
	}
	return userID, nil
}
