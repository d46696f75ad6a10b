package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akzshop/storeapi/internal/api/handlers"
	"github.com/akzshop/storeapi/internal/api/middleware"
	"github.com/akzshop/storeapi/internal/auth"
	"github.com/akzshop/storeapi/internal/cart"
	"github.com/akzshop/storeapi/internal/checkout"
	"github.com/akzshop/storeapi/internal/config"
	"github.com/akzshop/storeapi/internal/orders"
	"github.com/akzshop/storeapi/internal/repository"
)

// Services are the wired application services the router exposes
type Services struct {
	Auth     *auth.Service
	Cart     *cart.Service
	Checkout *checkout.Service
	Orders   *orders.Service
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, svcs Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Public routes
		v1.POST("/auth/register", handlers.HandleRegister(svcs.Auth, logger))
		v1.POST("/auth/login", handlers.HandleLogin(svcs.Auth, logger))

		// Catalog is public; a valid token switches prices to the tier
		catalogRoutes := v1.Group("")
		catalogRoutes.Use(middleware.OptionalAuthMiddleware(svcs.Auth, repos))
		{
			catalogRoutes.GET("/products", handlers.HandleListProducts(repos, logger))
			catalogRoutes.GET("/products/:id", handlers.HandleGetProduct(repos, logger))
		}

		// Shopper routes (require authentication; mutations need the CSRF token)
		shopperRoutes := v1.Group("")
		shopperRoutes.Use(middleware.AuthMiddleware(svcs.Auth, repos, logger))
		shopperRoutes.Use(middleware.CSRFMiddleware(svcs.Auth, logger))
		{
			shopperRoutes.POST("/auth/logout", handlers.HandleLogout(svcs.Auth, logger))
			shopperRoutes.GET("/auth/me", handlers.HandleMe(repos, logger))

			shopperRoutes.GET("/cart", handlers.HandleGetCart(svcs.Cart, repos, logger))
			shopperRoutes.DELETE("/cart", handlers.HandleClearCart(svcs.Cart, logger))
			shopperRoutes.GET("/cart/count", handlers.HandleCartCount(svcs.Cart, repos, logger))
			shopperRoutes.POST("/cart/items", handlers.HandleAddItem(svcs.Cart, repos, logger))
			shopperRoutes.PATCH("/cart/items/:productID", handlers.HandleUpdateItem(svcs.Cart, repos, logger))
			shopperRoutes.DELETE("/cart/items/:productID", handlers.HandleRemoveItem(svcs.Cart, logger))
			shopperRoutes.POST("/cart/promo", handlers.HandleApplyPromo(svcs.Cart, repos, logger))

			shopperRoutes.POST("/checkout/begin", handlers.HandleCheckoutBegin(svcs.Checkout, logger))
			shopperRoutes.POST("/checkout/back", handlers.HandleCheckoutBack(svcs.Checkout, logger))
			shopperRoutes.GET("/checkout/step", handlers.HandleCheckoutStep(svcs.Checkout, logger))
			shopperRoutes.POST("/checkout/submit", handlers.HandleCheckoutSubmit(svcs.Checkout, logger))
			shopperRoutes.GET("/orders", handlers.HandleOrderHistory(svcs.Checkout, logger))

			shopperRoutes.GET("/profile", handlers.HandleGetProfile(repos, logger))
			shopperRoutes.PUT("/profile", handlers.HandleUpdateProfile(repos, logger))
			shopperRoutes.PUT("/profile/subscription", handlers.HandleUpdateSubscription(repos, logger))
			shopperRoutes.GET("/profile/horses", handlers.HandleListHorses(repos, logger))
			shopperRoutes.POST("/profile/horses", handlers.HandleAddHorse(repos, logger))
		}

		// Admin routes (staff accounts only)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(svcs.Auth, repos, logger))
		adminRoutes.Use(middleware.RequireStaff())
		{
			adminRoutes.GET("/orders", handlers.HandleAdminListOrders(svcs.Orders, logger))
			adminRoutes.GET("/orders/:id", handlers.HandleAdminGetOrder(svcs.Orders, logger))
			adminRoutes.POST("/orders/:id/confirm", handlers.HandleAdminTransition(svcs.Orders, logger, confirmOrder))
			adminRoutes.POST("/orders/:id/assemble", handlers.HandleAdminTransition(svcs.Orders, logger, assembleOrder))
			adminRoutes.POST("/orders/:id/ship", handlers.HandleAdminTransition(svcs.Orders, logger, shipOrder))
			adminRoutes.POST("/orders/:id/deliver", handlers.HandleAdminTransition(svcs.Orders, logger, deliverOrder))
			adminRoutes.POST("/orders/:id/cancel", handlers.HandleAdminCancelOrder(svcs.Orders, logger))
		}
	}

	return router
}

func confirmOrder(s *orders.Service, c *gin.Context, orderID uuid.UUID) error {
	return s.Confirm(c.Request.Context(), orderID)
}

func assembleOrder(s *orders.Service, c *gin.Context, orderID uuid.UUID) error {
	return s.StartAssembly(c.Request.Context(), orderID)
}

func shipOrder(s *orders.Service, c *gin.Context, orderID uuid.UUID) error {
	return s.Ship(c.Request.Context(), orderID)
}

func deliverOrder(s *orders.Service, c *gin.Context, orderID uuid.UUID) error {
	return s.Deliver(c.Request.Context(), orderID)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
