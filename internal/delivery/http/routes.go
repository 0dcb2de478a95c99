package http

import (
	"github.com/gin-gonic/gin"
	"github.com/septicstore/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Catalog endpoints
	router.GET("/categories", handler.ListCategories)
	router.GET("/search", handler.SearchProducts)
	router.POST("/search", handler.SearchProductsJSON)
	router.GET("/find/:query", handler.FindProducts)
	router.GET("/product/:id", handler.GetProduct)

	// Lenient catch-all for integrations that POST arbitrary JSON
	router.POST("/ask", handler.Ask)

	return router
}
