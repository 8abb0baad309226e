// internal/middleware/auth.go
package middleware

import (
	"context"
	"log/slog"
	"strings"

	"finance-tracker/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey = "user_id"
	UserKey   = "user"

	// TokenCookie is the session cookie set at login.
	TokenCookie = "token"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAuth accepts "Authorization: Bearer <token>" first and falls back
// to the session cookie.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c.GetHeader("Authorization"))
		if tokenStr == "" {
			tokenStr, _ = c.Cookie(TokenCookie)
		}
		if tokenStr == "" {
			_ = c.Error(domain.Unauthorized("Not authorized, no token"))
			c.Abort()
			return
		}

		user, err := m.auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			slog.Debug("authentication failed", "path", c.Request.URL.Path, "error", err)
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// UserID returns the id stored by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
