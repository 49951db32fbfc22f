package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/welfarelens/backend/config"
)

// Observability carries the optional logger and metrics for the router.
type Observability struct {
	Logger         *zap.Logger
	Metrics        RequestMetrics
	MetricsHandler http.Handler
}

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, obs Observability) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := obs.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	if obs.Metrics != nil {
		router.Use(MetricsMiddleware(obs.Metrics))
	}
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check and metrics endpoints
	router.GET("/health", handler.HealthCheck)
	if obs.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(obs.MetricsHandler))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		welfare := v1.Group("/welfare")
		{
			welfare.POST("/analyze", handler.Analyze)
			welfare.POST("/analyze/batch", handler.AnalyzeBatch)
			welfare.GET("/products/:code", handler.AnalyzeByCode)
		}

		v1.GET("/patterns", handler.PatternStats)
	}

	return router
}
