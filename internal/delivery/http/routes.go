package http

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/shopsense/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/api/health", handler.HealthCheck)

	// Catalog endpoints
	router.POST("/add-product", handler.AddProduct)
	router.GET("/products", handler.ListProducts)
	router.GET("/products/:id", handler.GetProduct)

	// Chat endpoint
	router.POST("/chat", handler.Chat)

	// Admin: push every stale product to the search index
	router.POST("/sync-to-rag", handler.SyncToIndex)

	// Serve the built frontend when present; fall back to index.html for
	// client-side routes.
	if index := filepath.Join(cfg.Server.StaticDir, "index.html"); fileExists(index) {
		router.Static("/static", cfg.Server.StaticDir)
		router.GET("/", func(c *gin.Context) {
			c.File(index)
		})
		router.NoRoute(func(c *gin.Context) {
			c.File(index)
		})
	} else {
		router.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ShopSense API is running (frontend not built)"})
		})
	}

	return router
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
