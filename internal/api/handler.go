package api

import (
	"context"
	"net/http"
	"time"

	"shop-backend/internal/auth"
	"shop-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	svc    Services
	tokens *auth.Manager
	probes map[string]Pinger
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler. probes are checked by /ready.
func NewHandler(svc Services, tokens *auth.Manager, probes map[string]Pinger) *Handler {
	return &Handler{
		svc:    svc,
		tokens: tokens,
		probes: probes,
		logger: util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/register", h.register)
		user.POST("/login", h.login)
		user.POST("/admin", h.adminLogin)
		user.POST("/profile", h.authUser(), h.getProfile)
		user.POST("/profile/update", h.authUser(), h.updateProfile)
	}

	product := api.Group("/product")
	{
		product.POST("/add", h.authAdmin(), h.addProduct)
		product.GET("/list", h.listProducts)
		product.POST("/single", h.singleProduct)
		product.POST("/remove", h.authAdmin(), h.removeProduct)
	}

	cart := api.Group("/cart", h.authUser())
	{
		cart.POST("/get", h.getCart)
		cart.POST("/add", h.addToCart)
		cart.POST("/update", h.updateCart)
	}

	order := api.Group("/order")
	{
		order.POST("/list", h.authAdmin(), h.allOrders)
		order.POST("/status", h.authAdmin(), h.updateStatus)
		order.POST("/place", h.authUser(), h.placeOrder)
		order.POST("/stripe", h.authUser(), h.placeOrderStripe)
		order.POST("/verifyStripe", h.authUser(), h.verifyStripe)
		order.GET("/userorders", h.authUser(), h.userOrders)
	}

	review := api.Group("/review")
	{
		review.POST("/add", h.authUser(), h.addReview)
		review.GET("/get/:productId", h.getReviews)
		review.POST("/user/:productId", h.authUser(), h.getUserReview)
		review.POST("/check-purchase/:productId", h.authUser(), h.checkPurchase)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready only when every dependency answers
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for name, probe := range h.probes {
		if err := probe.Ping(ctx); err != nil {
			h.logger.Warn("Readiness probe failed", zap.String("dependency", name), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not ready",
				"dependency": name,
				"time":       time.Now().Unix(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}
