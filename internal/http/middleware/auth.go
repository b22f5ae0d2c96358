package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rso-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey    = "userID"
	ContextRoleKey      = "role"
	ContextSessionIDKey = "sessionID"
)

// Authenticator проверяет токен и серверную сессию.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Principal, error)
}

// AuthMiddleware пропускает только запросы с действующей сессией администратора.
// Для WebSocket токен допускается в query параметре token.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperror.ErrUnauthorized.Message})
			return
		}

		principal, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if apperror.IsUnauthorized(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sessão inválida ou expirada"})
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, principal.UserID)
		c.Set(ContextRoleKey, principal.Role)
		c.Set(ContextSessionIDKey, principal.SessionID)
		c.Next()
	}
}

// RequireAdmin пропускает только роль admin. Ставится после AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRoleKey) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": apperror.ErrForbidden.Message})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if c.IsWebsocket() {
		return c.Query("token")
	}
	return ""
}
