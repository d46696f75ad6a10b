package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/api/middleware"
	"github.com/akzshop/storeapi/internal/auth"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository"
)

// LoginRequest represents the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleRegister handles POST /v1/auth/register
func HandleRegister(authService *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   "Некорректный запрос",
			})
			return
		}

		user, err := authService.Register(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"user":    userResponse(user),
		})
	}
}

// HandleLogin handles POST /v1/auth/login
func HandleLogin(authService *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   "Укажите имя пользователя и пароль",
			})
			return
		}

		session, err := authService.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"token":      session.Token,
			"csrf_token": session.CSRFToken,
			"user":       userResponse(session.User),
		})
	}
}

// HandleLogout handles POST /v1/auth/logout
func HandleLogout(authService *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		if err := authService.Logout(c.Request.Context(), user.ID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleMe handles GET /v1/auth/me. The storefront reads the subscription
// tier and premium flag from here, so the profile rides along with the
// account fields.
func HandleMe(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		profile := profileOrDefault(c, repos, user.ID, logger)
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"authenticated": true,
			"user":          userResponse(user),
			"profile":       profileResponse(profile),
		})
	}
}

func userResponse(user *domain.User) gin.H {
	return gin.H{
		"id":         user.ID.String(),
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"full_name":  user.FullName(),
		"is_staff":   user.IsStaff,
	}
}
