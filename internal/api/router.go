package api

import (
	"context"
	"net/http"
	"time"

	"pantry-chef/internal/api/handlers/health"
	pantryHandler "pantry-chef/internal/api/handlers/pantry"
	recipeHandler "pantry-chef/internal/api/handlers/recipe"
	"pantry-chef/internal/api/middleware"
	"pantry-chef/internal/core/ai/cache"
	"pantry-chef/internal/core/ai/imagegen"
	"pantry-chef/internal/core/ai/textgen"
	recipeService "pantry-chef/internal/core/recipe"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/infrastructure/storage"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// Generous per-request deadline: generation is an LLM round trip.
	timeoutDuration = 120 * time.Second
	// Request body size limit (1MB; payloads here are small JSON).
	maxBodySize = 1 << 20
)

// SetupRouter wires middleware, services and routes.
func SetupRouter(cfg *config.Config, completions cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.NewDeduplicator(cfg.DedupWindow).Middleware())

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("text_model", cfg.TextProvider.Model),
		zap.String("image_mode", cfg.ImageProvider.Mode),
		zap.Duration("timeout", timeoutDuration),
	)

	textClient := textgen.NewClient(&cfg.TextProvider)
	imageClient := imagegen.NewClient(&cfg.ImageProvider)
	orchestrator := recipeService.NewService(cfg, textClient, imageClient, completions)
	pantryStore := storage.NewPantryStore(cfg.Pantry.Path)

	// Per-request deadline plus config injection for the health check.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	{
		recipes := recipeHandler.NewHandler(orchestrator, pantryStore)
		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/generate", recipes.HandleGenerate)
			recipeGroup.POST("/generate-from-pantry", recipes.HandleGenerateFromPantry)
			recipeGroup.POST("/tips", recipes.HandleTips)
		}

		pantries := pantryHandler.NewHandler(pantryStore)
		pantryGroup := api.Group("/pantry")
		{
			pantryGroup.GET("/ingredients", pantries.HandleList)
			pantryGroup.POST("/ingredients", pantries.HandleAdd)
			pantryGroup.DELETE("/ingredients/:id", pantries.HandleDelete)
		}
	}

	common.LogInfo("Router setup completed",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
