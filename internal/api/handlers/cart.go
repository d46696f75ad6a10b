package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/api/middleware"
	"github.com/akzshop/storeapi/internal/cart"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/pricing"
	"github.com/akzshop/storeapi/internal/repository"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

// AddItemRequest represents the add-to-cart payload
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest represents the quantity change payload
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// PromoRequest represents the promo code payload
type PromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(carts *cart.Service, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		tier := tierFor(c, repos, user.ID)
		crt, err := carts.Get(c.Request.Context(), user.ID, tier)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		method := domain.DeliveryMethod(c.DefaultQuery("delivery", string(domain.DeliveryCourier)))
		if !method.IsValid() {
			method = domain.DeliveryCourier
		}

		summary, err := pricing.Quote(crt.Items, tier, method, c.Query("promo"))
		promoValid := true
		if err != nil {
			var promoErr *perrors.ErrInvalidPromoCode
			if !errors.As(err, &promoErr) {
				respondError(c, logger, err)
				return
			}
			promoValid = false
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"cart":        cartResponse(crt),
			"summary":     summary,
			"savings":     pricing.Savings(crt.Items, tier),
			"promo_valid": promoValid,
		})
	}
}

// HandleAddItem handles POST /v1/cart/items
func HandleAddItem(carts *cart.Service, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Некорректный запрос"})
			return
		}

		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Некорректный идентификатор товара"})
			return
		}

		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}

		tier := tierFor(c, repos, user.ID)
		item, err := carts.AddItem(c.Request.Context(), user.ID, productID, quantity, tier)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		count, err := carts.Count(c.Request.Context(), user.ID, tier)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"item":    itemResponse(*item),
			"count":   count,
		})
	}
}

// HandleUpdateItem handles PATCH /v1/cart/items/:productID.
// A non-positive quantity removes the line, as the cart page does.
func HandleUpdateItem(carts *cart.Service, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		productID, err := uuid.Parse(c.Param("productID"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Некорректный идентификатор товара"})
			return
		}

		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Некорректный запрос"})
			return
		}

		if req.Quantity <= 0 {
			err = carts.RemoveItem(c.Request.Context(), user.ID, productID)
		} else {
			err = carts.UpdateQuantity(c.Request.Context(), user.ID, productID, req.Quantity)
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:productID
func HandleRemoveItem(carts *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		productID, err := uuid.Parse(c.Param("productID"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Некорректный идентификатор товара"})
			return
		}

		if err := carts.RemoveItem(c.Request.Context(), user.ID, productID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(carts *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		if err := carts.Clear(c.Request.Context(), user.ID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleCartCount handles GET /v1/cart/count
func HandleCartCount(carts *cart.Service, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		count, err := carts.Count(c.Request.Context(), user.ID, tierFor(c, repos, user.ID))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
	}
}

// HandleApplyPromo handles POST /v1/cart/promo
func HandleApplyPromo(carts *cart.Service, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		var req PromoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Укажите промокод"})
			return
		}

		tier := tierFor(c, repos, user.ID)
		crt, err := carts.Get(c.Request.Context(), user.ID, tier)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		method := domain.DeliveryMethod(c.DefaultQuery("delivery", string(domain.DeliveryCourier)))
		if !method.IsValid() {
			method = domain.DeliveryCourier
		}

		summary, err := pricing.Quote(crt.Items, tier, method, req.Code)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": pricing.PromoMessage(req.Code),
			"summary": summary,
		})
	}
}

func cartResponse(crt *domain.Cart) gin.H {
	items := make([]gin.H, len(crt.Items))
	for i, item := range crt.Items {
		items[i] = itemResponse(item)
	}
	return gin.H{
		"items":       items,
		"total_items": crt.TotalItems(),
	}
}

func itemResponse(item domain.CartItem) gin.H {
	return gin.H{
		"product_id":     item.ProductID.String(),
		"name":           item.Name,
		"specs":          item.Specs,
		"unit":           item.Unit,
		"price":          item.Price,
		"original_price": item.OriginalPrice,
		"quantity":       item.Quantity,
		"total_price":    item.TotalPrice(),
		"image_url":      item.ImageURL,
	}
}
