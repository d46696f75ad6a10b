package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/api/middleware"
	"github.com/akzshop/storeapi/internal/checkout"
	"github.com/akzshop/storeapi/internal/domain"
)

// HandleCheckoutBegin handles POST /v1/checkout/begin
func HandleCheckoutBegin(flow *checkout.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		state, err := flow.Begin(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"state":   state,
		})
	}
}

// HandleCheckoutBack handles POST /v1/checkout/back
func HandleCheckoutBack(flow *checkout.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		flow.Back(c.Request.Context(), user.ID)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"step":    checkout.StepCart,
		})
	}
}

// HandleCheckoutStep handles GET /v1/checkout/step
func HandleCheckoutStep(flow *checkout.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"step":    flow.CurrentStep(c.Request.Context(), user.ID),
		})
	}
}

// HandleCheckoutSubmit handles POST /v1/checkout/submit. A repeated
// Idempotency-Key header returns the order created for the first attempt.
func HandleCheckoutSubmit(flow *checkout.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		var form checkout.Form
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Некорректный запрос"})
			return
		}

		order, err := flow.Submit(c.Request.Context(), user.ID, form, c.GetHeader("Idempotency-Key"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   orderResponse(order),
		})
	}
}

// HandleOrderHistory handles GET /v1/orders
func HandleOrderHistory(flow *checkout.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit < 1 || limit > 100 {
			limit = 20
		}

		orders, err := flow.History(c.Request.Context(), user.ID, limit)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]gin.H, len(orders))
		for i := range orders {
			responses[i] = orderResponse(&orders[i])
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orders":  responses,
		})
	}
}

func orderResponse(order *domain.Order) gin.H {
	return gin.H{
		"id":             order.ID.String(),
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"status_display": order.Status.DisplayName(),
		"customer_name":  order.CustomerName,
		"delivery": gin.H{
			"method":    order.DeliveryMethod,
			"city":      order.DeliveryCity,
			"street":    order.DeliveryStreet,
			"house":     order.DeliveryHouse,
			"apartment": order.DeliveryApartment,
			"index":     order.DeliveryIndex,
		},
		"payment_method": order.PaymentMethod,
		"subtotal":       order.Subtotal,
		"discount":       order.Discount,
		"assembly_cost":  order.AssemblyCost,
		"delivery_cost":  order.DeliveryCost,
		"total":          order.Total,
		"promo_code":     order.PromoCode,
		"created_at":     order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
