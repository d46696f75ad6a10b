package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/api/middleware"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository"
)

// HandleListProducts handles GET /v1/products. The price reflects the
// shopper's tier; anonymous visitors see base prices.
func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tier := domain.SubscriptionFree
		if user, ok := middleware.GetUserFromContext(c); ok {
			tier = tierFor(c, repos, user.ID)
		}

		products, err := repos.Product.List(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]gin.H, 0, len(products))
		for _, p := range products {
			if !p.IsActive {
				continue
			}
			responses = append(responses, productResponse(p, tier))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"products": responses,
			"tier":     tier,
		})
	}
}

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tier := domain.SubscriptionFree
		if user, ok := middleware.GetUserFromContext(c); ok {
			tier = tierFor(c, repos, user.ID)
		}

		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Некорректный идентификатор товара"})
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"product": productResponse(*product, tier),
		})
	}
}

func productResponse(p domain.Product, tier domain.Subscription) gin.H {
	return gin.H{
		"id":            p.ID.String(),
		"name":          p.Name,
		"description":   p.Description,
		"specs":         p.Specs,
		"unit":          p.Unit,
		"price":         p.PriceFor(tier),
		"base_price":    p.BasePrice,
		"premium_price": p.PremiumPrice,
		"pro_price":     p.ProPrice,
		"image_url":     p.ImageURL,
		"in_stock":      p.Stock > 0,
	}
}
