package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/pricing"
	"github.com/akzshop/storeapi/internal/repository"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

// respondError maps domain errors onto the API contract. Rule violations
// that the storefront shows inline (empty cart, bad promo) come back as
// 200 with success=false; real failures get their status codes.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *perrors.ErrValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"field":   e.Field,
			"error":   e.Message,
		})
	case *perrors.ErrBusinessRule:
		c.JSON(http.StatusOK, gin.H{"success": false, "error": e.Message})
	case *perrors.ErrEmptyCart:
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Корзина пуста"})
	case *perrors.ErrInvalidPromoCode:
		c.JSON(http.StatusOK, gin.H{"success": false, "error": pricing.PromoMessage(e.Code)})
	case *perrors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": e.Message})
	case *perrors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Не найдено"})
	case *perrors.ErrInvalidStateTransition:
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": e.Error()})
	default:
		logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}

// tierFor resolves the shopper's effective subscription tier; accounts
// without a profile shop at the free tier
func tierFor(c *gin.Context, repos *repository.Repositories, userID uuid.UUID) domain.Subscription {
	profile, err := repos.Profile.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		return domain.SubscriptionFree
	}
	return profile.Tier()
}
