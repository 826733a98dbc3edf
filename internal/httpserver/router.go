package httpserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront-core/internal/checkout"
	"storefront-core/internal/pricing"
	orderrepo "storefront-core/internal/repository/order"
	"storefront-core/internal/service/identity"
	"storefront-core/internal/session"
)

// Deps collects the collaborators the routes need.
type Deps struct {
	Identity *identity.Service
	Sessions *session.Manager
	Checkout *checkout.Orchestrator
	Orders   orderrepo.Repository
	Promos   *pricing.PromoTable
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/anonymous/tokens", issueDeviceToken(deps.Identity))
	router.POST("/customers", signupHandler(deps.Identity))

	authed := router.Group("/", sessionMiddleware(deps.Identity, deps.Sessions))
	{
		authed.POST("/customers/token", signInHandler(deps.Identity))
		authed.DELETE("/customers/token", signOutHandler(deps.Identity))

		authed.GET("/me/cart", getCartHandler())
		authed.POST("/me/cart/items", addItemHandler())
		authed.PATCH("/me/cart/items", setQuantityHandler())
		authed.DELETE("/me/cart/items", removeItemHandler())
		authed.DELETE("/me/cart", clearCartHandler())
		authed.POST("/me/cart/promo", applyPromoHandler(deps.Promos))

		authed.POST("/me/checkout", checkoutHandler(deps.Checkout))
		authed.GET("/me/orders/:orderId", getOrderHandler(deps.Orders))
	}

	return router, nil
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
