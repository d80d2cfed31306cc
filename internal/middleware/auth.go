package middleware

import (
	"fmt"
	"strings"

	"gator.dev/studygator/pkg/apperror"
	"gator.dev/studygator/pkg/response"
	"gator.dev/studygator/pkg/token"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	verifier token.Verifier
}

func NewAuthMiddleware(verifier token.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects the request unless it carries a valid bearer token and stores the
// token subject under response.UserIDKey.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := m.Authenticate(BearerToken(c))
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		c.Set(response.UserIDKey, userID)
		c.Next()
	}
}

// Authenticate verifies raw and returns the acting user id.
func (m *AuthMiddleware) Authenticate(raw string) (uint, error) {
	if raw == "" {
		return 0, fmt.Errorf("authorization required: %w", apperror.ErrUnauthorized)
	}

	result := m.verifier.Verify(raw)
	switch result.Status {
	case token.StatusValid:
		return result.UserID, nil
	case token.StatusExpired:
		return 0, fmt.Errorf("token expired: %w", apperror.ErrUnauthorized)
	case token.StatusInvalid:
		return 0, fmt.Errorf("invalid token: %w", apperror.ErrUnauthorized)
	default:
		return 0, fmt.Errorf("verify token: %w", result.Err)
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
