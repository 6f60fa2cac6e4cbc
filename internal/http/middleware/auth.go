package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/interface/http/response"
	"github.com/ignatzorin/hiring-backend/internal/usecase/auth"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// AuthMiddleware проверяет JWT access токен и кладёт пользователя в контекст.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "требуется авторизация")
			c.Abort()
			return
		}

		userID, role, err := tokens.ParseAccess(strings.TrimPrefix(header, "Bearer "))
		if err != nil || userID == uuid.Nil {
			response.Unauthorized(c, "токен невалиден")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// Principal достаёт пользователя, положенного AuthMiddleware.
func Principal(c *gin.Context) (entity.Principal, bool) {
	userID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return entity.Principal{}, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return entity.Principal{}, false
	}
	role, _ := c.Get(ContextRoleKey)
	roleStr, _ := role.(string)
	return entity.Principal{UserID: id, Role: entity.Role(roleStr)}, true
}

// RequireRoles пропускает только перечисленные роли. Ставится после AuthMiddleware.
func RequireRoles(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := Principal(c)
		if !ok {
			response.Unauthorized(c, "требуется авторизация")
			c.Abort()
			return
		}
		if !p.Role.OneOf(roles...) {
			response.Forbidden(c, "недостаточно прав")
			c.Abort()
			return
		}
		c.Next()
	}
}
