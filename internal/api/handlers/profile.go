package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/api/middleware"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository"
	"github.com/akzshop/storeapi/internal/validate"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

// UpdateProfileRequest represents the profile edit payload
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Apartment string `json:"apartment"`
	Index     string `json:"index"`

	PreferredDelivery string `json:"preferred_delivery"`
	PreferredPayment  string `json:"preferred_payment"`
}

// SubscriptionRequest represents a tier change payload
type SubscriptionRequest struct {
	Tier   string `json:"tier" binding:"required"`
	Active bool   `json:"active"`
}

// AddHorseRequest represents the add-horse payload
type AddHorseRequest struct {
	Name        string `json:"name" binding:"required"`
	Breed       string `json:"breed"`
	Age         int    `json:"age"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// HandleGetProfile handles GET /v1/profile
func HandleGetProfile(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		profile := profileOrDefault(c, repos, user.ID, logger)
		horses, err := repos.Horse.ListByOwner(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"user":    userResponse(user),
			"profile": profileResponse(profile),
			"horses":  horsesResponse(horses),
		})
	}
}

// HandleUpdateProfile handles PUT /v1/profile
func HandleUpdateProfile(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Некорректный запрос"})
			return
		}

		if req.Phone != "" && !validate.Phone(req.Phone) {
			respondError(c, logger, &perrors.ErrValidation{
				Field:   "phone",
				Message: "Пожалуйста, укажите корректный номер телефона",
			})
			return
		}
		if req.Index != "" && !validate.PostalCode(req.Index) {
			respondError(c, logger, &perrors.ErrValidation{
				Field:   "index",
				Message: "Пожалуйста, укажите корректный почтовый индекс (6 цифр)",
			})
			return
		}

		// Name fields are patched individually; an omitted field keeps its
		// stored value
		if req.FirstName != "" || req.LastName != "" {
			if req.FirstName != "" {
				user.FirstName = strings.TrimSpace(req.FirstName)
			}
			if req.LastName != "" {
				user.LastName = strings.TrimSpace(req.LastName)
			}
			if err := repos.User.Update(c.Request.Context(), user); err != nil {
				respondError(c, logger, err)
				return
			}
		}

		profile := profileOrDefault(c, repos, user.ID, logger)
		if req.Phone != "" {
			profile.Phone = validate.FormatPhone(req.Phone)
		}
		profile.Address = domain.Address{
			City:      strings.TrimSpace(req.City),
			Street:    strings.TrimSpace(req.Street),
			House:     strings.TrimSpace(req.House),
			Apartment: strings.TrimSpace(req.Apartment),
			Index:     strings.TrimSpace(req.Index),
		}
		if method := domain.DeliveryMethod(req.PreferredDelivery); method.IsValid() {
			profile.PreferredDelivery = method
		}
		if method := domain.PaymentMethod(req.PreferredPayment); method.IsValid() {
			profile.PreferredPayment = method
		}

		if err := repos.Profile.Update(c.Request.Context(), profile); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"profile": profileResponse(profile),
		})
	}
}

// HandleUpdateSubscription handles PUT /v1/profile/subscription
func HandleUpdateSubscription(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		var req SubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Некорректный запрос"})
			return
		}

		tier := domain.Subscription(req.Tier)
		if !tier.IsValid() {
			respondError(c, logger, &perrors.ErrValidation{
				Field:   "tier",
				Message: "Неизвестный тариф подписки",
			})
			return
		}

		if err := repos.Profile.UpdateSubscription(c.Request.Context(), user.ID, tier, req.Active); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Subscription updated",
			zap.String("user_id", user.ID.String()),
			zap.String("tier", string(tier)),
			zap.Bool("active", req.Active))

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"subscription": tier,
			"display_name": tier.DisplayName(),
		})
	}
}

// HandleListHorses handles GET /v1/profile/horses
func HandleListHorses(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		horses, err := repos.Horse.ListByOwner(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"horses":  horsesResponse(horses),
		})
	}
}

// HandleAddHorse handles POST /v1/profile/horses
func HandleAddHorse(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		var req AddHorseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Укажите кличку лошади"})
			return
		}

		horse := &domain.Horse{
			ID:          uuid.New(),
			OwnerID:     user.ID,
			Name:        strings.TrimSpace(req.Name),
			Breed:       strings.TrimSpace(req.Breed),
			Age:         req.Age,
			Color:       strings.TrimSpace(req.Color),
			Description: strings.TrimSpace(req.Description),
			CreatedAt:   time.Now(),
		}
		if err := repos.Horse.Create(c.Request.Context(), horse); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"horse":   horseResponse(*horse),
		})
	}
}

func profileOrDefault(c *gin.Context, repos *repository.Repositories, userID uuid.UUID, logger *zap.Logger) *domain.Profile {
	profile, err := repos.Profile.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		var notFound *perrors.ErrNotFound
		if !errors.As(err, &notFound) {
			logger.Warn("Failed to load profile", zap.Error(err))
		}
		return &domain.Profile{UserID: userID, Subscription: domain.SubscriptionFree}
	}
	return profile
}

func profileResponse(profile *domain.Profile) gin.H {
	tier := profile.Tier()
	return gin.H{
		"phone": profile.Phone,
		"address": gin.H{
			"city":      profile.Address.City,
			"street":    profile.Address.Street,
			"house":     profile.Address.House,
			"apartment": profile.Address.Apartment,
			"index":     profile.Address.Index,
		},
		"subscription":         tier,
		"subscription_display": tier.DisplayName(),
		"is_premium":           profile.IsPremium(),
		"preferred_delivery":   profile.PreferredDelivery,
		"preferred_payment":    profile.PreferredPayment,
	}
}

func horsesResponse(horses []domain.Horse) []gin.H {
	out := make([]gin.H, len(horses))
	for i, h := range horses {
		out[i] = horseResponse(h)
	}
	return out
}

func horseResponse(h domain.Horse) gin.H {
	return gin.H{
		"id":          h.ID.String(),
		"name":        h.Name,
		"breed":       h.Breed,
		"age":         h.Age,
		"color":       h.Color,
		"description": h.Description,
	}
}
