package api

import (
	"net/http"
	"time"

	"sweetiegarden/config"
	"sweetiegarden/internal/service"
	"sweetiegarden/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	auth     *service.AuthService
	cart     *service.CartService
	catalog  *service.CatalogService
	coupons  *service.CouponService
	orders   *service.OrderService
	sessions *session.Store

	cookieName string
	cookieTTL  time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(
	auth *service.AuthService,
	cart *service.CartService,
	catalog *service.CatalogService,
	coupons *service.CouponService,
	orders *service.OrderService,
	sessions *session.Store,
	shop config.ShopConfig,
) *Handler {
	return &Handler{
		auth:       auth,
		cart:       cart,
		catalog:    catalog,
		coupons:    coupons,
		orders:     orders,
		sessions:   sessions,
		cookieName: shop.SessionCookie,
		cookieTTL:  shop.SessionTTL,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		respondError(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Not found")
	})

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(h.sessionMiddleware())
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/logout", h.logout)
			auth.GET("/me", h.currentUser)
		}

		v1.GET("/products", h.listProducts)
		v1.GET("/products/:slug", h.getProduct)
		v1.GET("/categories", h.listCategories)

		cart := v1.Group("/cart")
		{
			cart.GET("", h.getCart)
			cart.POST("/items", h.addCartItem)
			cart.PUT("/items/:id", h.updateCartItem)
			cart.DELETE("/items/:id", h.removeCartItem)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", h.createOrder)
			orders.GET("", requireAuth(), h.listOrders)
			orders.GET("/:id", requireAuth(), h.getOrder)
		}

		admin := v1.Group("/admin", requireAuth(), requireAdmin())
		{
			admin.PUT("/orders/:id/status", h.updateOrderStatus)
			admin.GET("/orders", h.listOrders)

			admin.POST("/coupons", h.createCoupon)
			admin.GET("/coupons", h.listCoupons)
			admin.GET("/coupons/:id", h.getCoupon)
			admin.PUT("/coupons/:id", h.updateCoupon)
			admin.DELETE("/coupons/:id", h.deleteCoupon)

			admin.GET("/stats", h.dashboardStats)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}
