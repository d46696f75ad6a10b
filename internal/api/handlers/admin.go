package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/orders"
)

// CancelOrderRequest represents the cancel order payload
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// HandleAdminListOrders handles GET /v1/admin/orders
func HandleAdminListOrders(orderService *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit < 1 || limit > 100 {
			limit = 50
		}

		var status *domain.OrderStatus
		if raw := c.Query("status"); raw != "" {
			s := domain.OrderStatus(raw)
			if !s.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Неизвестный статус заказа"})
				return
			}
			status = &s
		}

		list, err := orderService.List(c.Request.Context(), status, limit)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]gin.H, len(list))
		for i := range list {
			responses[i] = orderResponse(&list[i])
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orders":  responses,
			"limit":   limit,
		})
	}
}

// HandleAdminGetOrder handles GET /v1/admin/orders/:id
func HandleAdminGetOrder(orderService *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный идентификатор заказа"})
			return
		}

		order, items, err := orderService.Get(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		itemResponses := make([]gin.H, len(items))
		for i, item := range items {
			itemResponses[i] = gin.H{
				"product_id": item.ProductID.String(),
				"name":       item.Name,
				"price":      item.Price,
				"quantity":   item.Quantity,
			}
		}

		resp := orderResponse(order)
		resp["items"] = itemResponses
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   resp,
		})
	}
}

// HandleAdminTransition builds a handler that applies one lifecycle step,
// shared by the confirm, assemble, ship and deliver routes
func HandleAdminTransition(orderService *orders.Service, logger *zap.Logger, apply func(*orders.Service, *gin.Context, uuid.UUID) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный идентификатор заказа"})
			return
		}

		if err := apply(orderService, c, orderID); err != nil {
			respondError(c, logger, err)
			return
		}

		order, _, err := orderService.Get(c.Request.Context(), orderID)
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

// HandleAdminCancelOrder handles POST /v1/admin/orders/:id/cancel
func HandleAdminCancelOrder(orderService *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return HandleAdminTransition(orderService, logger, func(s *orders.Service, c *gin.Context, orderID uuid.UUID) error {
		var req CancelOrderRequest
		_ = c.ShouldBindJSON(&req) // reason is optional
		return s.Cancel(c.Request.Context(), orderID, req.Reason)
	})
}
