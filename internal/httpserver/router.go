package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: deps.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", sessionHeader},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/session", createSessionHandler(deps.Sessions))

	authed := router.Group("/", sessionRequired(deps.Sessions))
	authed.POST("/session/sign-in", signInHandler())
	authed.POST("/session/sign-out", signOutHandler())

	authed.GET("/cart", getCartHandler())
	authed.POST("/cart/items", addItemHandler())
	authed.PUT("/cart/items/:productId", setQuantityHandler())
	authed.DELETE("/cart/items/:productId", removeItemHandler())
	authed.DELETE("/cart", clearCartHandler())

	authed.GET("/wishlist", getWishlistHandler())
	authed.POST("/wishlist/toggle", toggleWishlistHandler())
	authed.DELETE("/wishlist/:productId", removeFromWishlistHandler())

	authed.GET("/notices", noticesHandler())

	return router
}
