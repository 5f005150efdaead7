package routes

import (
	"time"

	"bbq-storefront/checkout"
	"bbq-storefront/config"
	"bbq-storefront/handlers"
	"bbq-storefront/kitchen"
	"bbq-storefront/metrics"
	"bbq-storefront/middleware"
	"bbq-storefront/upsell"
	"bbq-storefront/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the long-lived services the handlers share.
type Dependencies struct {
	DB        *gorm.DB
	Config    *config.Config
	Log       *zap.Logger
	Sessions  *utils.SessionStore
	Metrics   *metrics.Registry
	Publisher kitchen.Publisher
	Mailer    *utils.Mailer
	Processor checkout.PaymentProcessor
	Engine    *upsell.Engine
}

// SetupRoutes registers every endpoint and returns the checkout rate limiter
// so the caller can stop it on shutdown.
func SetupRoutes(r *gin.Engine, deps Dependencies) *middleware.RateLimiter {
	cfg := deps.Config
	if deps.Engine == nil {
		deps.Engine = upsell.DefaultEngine()
	}
	if deps.Processor == nil {
		deps.Processor = checkout.SimulatedProcessor{}
	}

	r.Use(middleware.RequestLogger(deps.Log, deps.Metrics))

	// Initialize handlers
	sessionHandler := &handlers.SessionHandler{
		Sessions: deps.Sessions, Secret: cfg.SessionSecret, TTL: cfg.SessionIdleTTL,
		Metrics: deps.Metrics, Log: deps.Log,
	}
	menuHandler := &handlers.MenuHandler{DB: deps.DB, Log: deps.Log, RelatedLimit: cfg.RelatedItems}
	cartHandler := &handlers.CartHandler{
		DB: deps.DB, Log: deps.Log, Metrics: deps.Metrics,
		DeliveryFee: cfg.DeliveryFee, BundlePrice: cfg.BundlePrice,
	}
	upsellHandler := &handlers.UpsellHandler{
		DB: deps.DB, Log: deps.Log, Metrics: deps.Metrics,
		Engine: deps.Engine, MaxRecommendations: cfg.MaxRecommendations,
	}
	checkoutHandler := &handlers.CheckoutHandler{
		DB: deps.DB, Log: deps.Log, Metrics: deps.Metrics,
		Processor: deps.Processor, Publisher: deps.Publisher, Mailer: deps.Mailer,
		DeliveryFee: cfg.DeliveryFee,
	}
	orderHandler := &handlers.OrderHandler{DB: deps.DB, Log: deps.Log}

	paymentLimiter := middleware.NewRateLimiter(cfg.CheckoutRateLimit, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/session", sessionHandler.CreateSession)

		api.GET("/menu", menuHandler.GetMenu)
		api.GET("/menu/:id", menuHandler.GetMenuItem)
		api.GET("/menu/:id/related", menuHandler.GetRelatedItems)
		api.GET("/combos", menuHandler.GetComboTemplates)
		api.GET("/plate-sizes", menuHandler.GetPlateSizes)
		api.GET("/order-transitions", orderHandler.GetOrderTransitions)
	}

	// Session routes (require a session token)
	shop := api.Group("")
	shop.Use(middleware.SessionMiddleware(cfg.SessionSecret, deps.Sessions))
	{
		// Cart routes
		shop.GET("/cart", cartHandler.GetCart)
		shop.POST("/cart/items", cartHandler.AddItem)
		shop.POST("/cart/combos", cartHandler.AddCombo)
		shop.POST("/cart/plates", cartHandler.AddPlate)
		shop.PUT("/cart/items/:id", cartHandler.UpdateCartItem)
		shop.PATCH("/cart/items/:id", cartHandler.EditCartItem)
		shop.DELETE("/cart/items/:id", cartHandler.RemoveFromCart)
		shop.DELETE("/cart", cartHandler.ClearCart)

		// Upsell routes
		shop.GET("/recommendations", upsellHandler.GetRecommendations)
		shop.GET("/recommendations/combos", upsellHandler.GetComboSuggestions)

		// Checkout routes
		shop.GET("/checkout", checkoutHandler.GetCheckout)
		shop.POST("/checkout/review", checkoutHandler.ConfirmReview)
		shop.POST("/checkout/details", checkoutHandler.SubmitDetails)
		shop.POST("/checkout/back", checkoutHandler.Back)
		shop.POST("/checkout/payment", paymentLimiter.Middleware(), checkoutHandler.PlacePayment)

		// Order routes
		shop.GET("/orders", orderHandler.GetOrders)
		shop.GET("/orders/:number", orderHandler.GetOrder)
		shop.POST("/orders/:number/cancel", orderHandler.CancelOrder)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	return paymentLimiter
}
