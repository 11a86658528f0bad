package api

import (
	"fmt"
	"time"

	"github.com/panpapadopoulos/cooking/internal/api/handlers"
	"github.com/panpapadopoulos/cooking/internal/api/handlers/health"
	recipeHandler "github.com/panpapadopoulos/cooking/internal/api/handlers/recipe"
	"github.com/panpapadopoulos/cooking/internal/api/middleware"
	"github.com/panpapadopoulos/cooking/internal/api/response"
	"github.com/panpapadopoulos/cooking/internal/core/ai"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/core/units"
	"github.com/panpapadopoulos/cooking/internal/infrastructure/config"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the services the router exposes. Syncer is nil when no
// remote store is configured; Checks feed the health probes.
type Dependencies struct {
	Config   *config.Config
	Recipes  *recipe.Service
	AI       *ai.Service
	Registry *units.Registry
	Syncer   *recipe.Syncer
	Checks   map[string]health.Checker
}

// SetupRouter builds the gin engine with middleware and routes.
func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	if cfg == nil || deps.Recipes == nil || deps.AI == nil {
		return nil, fmt.Errorf("router needs config, recipe service and ai service")
	}
	if deps.Registry == nil {
		deps.Registry = units.Default()
	}

	common.LogInfo("setting up router",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: !containsWildcard(cfg.Server.AllowOrigins),
		MaxAge:           12 * time.Hour,
	}))
	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}
	router.Use(func(c *gin.Context) {
		c.Set(response.DebugKey, cfg.App.Debug)
		c.Next()
	})

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, common.ErrNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		response.Error(c, common.ErrMethodNotAllowed)
	})

	healthHandler := health.NewHandler(cfg.App.Version, deps.AI.Configured(), deps.Checks)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(middleware.NewLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))
	}
	if cfg.Server.RequestTimeout > 0 {
		v1.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	// writes only; parse and unit queries are safe to repeat
	dedup := middleware.NewDeduplicator(cfg.DedupWindow).Handler()

	aiHandler := handlers.NewAIHandler(deps.AI)
	unitsHandler := handlers.NewUnitsHandler(deps.Registry, cfg.DefaultSystem())
	recipes := recipeHandler.NewHandler(deps.Recipes, deps.Syncer, cfg.DefaultSystem())

	{
		v1.POST("/translate", aiHandler.Translate)

		unitGroup := v1.Group("/units")
		unitGroup.GET("", unitsHandler.Units)
		unitGroup.POST("/convert", unitsHandler.Convert)
		unitGroup.POST("/scale", unitsHandler.Scale)

		recipeGroup := v1.Group("/recipes")
		recipeGroup.GET("", recipes.List)
		recipeGroup.POST("", dedup, recipes.Create)
		recipeGroup.DELETE("", recipes.Clear)
		recipeGroup.POST("/parse", aiHandler.Parse)
		recipeGroup.GET("/export", recipes.Export)
		recipeGroup.POST("/import", dedup, recipes.Import)
		recipeGroup.GET("/:id", recipes.Get)
		recipeGroup.PUT("/:id", recipes.Update)
		recipeGroup.DELETE("/:id", recipes.Delete)
		recipeGroup.GET("/:id/view", recipes.View)

		v1.POST("/sync", dedup, recipes.Sync)
	}

	common.LogInfo("router setup completed",
		zap.Bool("ai_configured", deps.AI.Configured()),
		zap.Bool("remote_sync", deps.Syncer != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}
