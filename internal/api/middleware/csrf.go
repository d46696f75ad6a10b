package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/auth"
)

// CSRFMiddleware checks the anti-forgery token on mutating requests.
// Safe methods pass through; must run after AuthMiddleware.
func CSRFMiddleware(authService *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		user, ok := GetUserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		token := c.GetHeader("X-CSRF-Token")
		if !authService.VerifyCSRF(c.Request.Context(), user.ID, token) {
			logger.Warn("CSRF token mismatch",
				zap.String("user_id", user.ID.String()),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Недействительный CSRF токен"})
			return
		}

		c.Next()
	}
}
