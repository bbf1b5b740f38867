package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Pawissanan/Get-YouTube-View/infrastructure/metrics"
	httpHandler "github.com/Pawissanan/Get-YouTube-View/interfaces/http"
	"github.com/Pawissanan/Get-YouTube-View/interfaces/middleware"
)

// RouterConfig holds the transport settings of the HTTP API.
type RouterConfig struct {
	CorsOrigins []string
	// SecretKey enables bearer auth on /api when set.
	SecretKey string
}

var defaultOrigins = []string{"http://localhost:4200", "http://localhost:4201", "http://localhost:8501"}

func InitiateRouter(
	cfg RouterConfig,
	extractionHandler httpHandler.IExtractionHandler,
	healthHandler httpHandler.IHealthHandler,
	m *metrics.Metrics,
) *gin.Engine {
	origins := cfg.CorsOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if m != nil {
		router.Use(m.Middleware())
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", httpHandler.APIKeyHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler.Healthz)
	if m != nil {
		router.GET("/metrics", m.Handler())
	}

	api := router.Group("api")
	api.Use(middleware.Auth(cfg.SecretKey))

	extractions := api.Group("/extractions")
	{
		extractions.POST("", extractionHandler.Run)
		extractions.GET("/export", extractionHandler.Export)
		extractions.POST("/sheet", extractionHandler.Sheet)
		extractions.GET("/quota", extractionHandler.Quota)
		extractions.GET("/:runId/events", extractionHandler.Events)
	}

	return router
}
