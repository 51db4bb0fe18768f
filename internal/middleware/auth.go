package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Leganyst/workshop-platform/internal/auth"
	"github.com/Leganyst/workshop-platform/internal/model"
)

// Ключи контекста gin.
const (
	ContextUserID = "acting_user_id"
	ContextRole   = "acting_user_role"
)

// Authenticate проверяет JWT и кладёт идентификатор действующего
// пользователя в контекст запроса.
func Authenticate(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		claims, err := authSvc.ValidateToken(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole пропускает только указанную роль; админ проходит всегда.
func RequireRole(role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := c.Get(ContextRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user context"})
			return
		}
		r := current.(model.UserRole)
		if r != role && r != model.UserRoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// ActingUserID достаёт uuid действующего пользователя из контекста.
// nil, если запрос не аутентифицирован или идентификатор повреждён.
func ActingUserID(c *gin.Context) *uuid.UUID {
	raw, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return nil
	}
	return &id
}
