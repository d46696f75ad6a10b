package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/auth"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository"
)

const userContextKey = "auth_user"

// AuthMiddleware validates the bearer token and loads the account into the
// request context
func AuthMiddleware(authService *auth.Service, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		claims, err := authService.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		user, err := repos.User.GetByID(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("Token for unknown user", zap.String("user_id", claims.Subject))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		SetUser(c, user)
		c.Next()
	}
}

// OptionalAuthMiddleware loads the account when a valid bearer token is
// present and stays silent otherwise. Catalog prices depend on it.
func OptionalAuthMiddleware(authService *auth.Service, repos *repository.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		claims, err := authService.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.Next()
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.Next()
			return
		}

		if user, err := repos.User.GetByID(c.Request.Context(), userID); err == nil {
			SetUser(c, user)
		}
		c.Next()
	}
}

// RequireStaff rejects non-staff accounts; must run after AuthMiddleware
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserFromContext(c)
		if !ok || !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Доступ запрещён"})
			return
		}
		c.Next()
	}
}

// SetUser stores the authenticated account on the request context
func SetUser(c *gin.Context, user *domain.User) {
	c.Set(userContextKey, user)
}

// GetUserFromContext returns the authenticated account set by AuthMiddleware
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
