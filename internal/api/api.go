// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/api/handlers"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/api/middleware"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/metrics"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	DashboardService *service.DashboardService
	Metrics          *metrics.Metrics
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	m := metrics.New(metrics.DefaultPrefix)
	if services != nil && services.Metrics != nil {
		m = services.Metrics
	}

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(m))

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8501"}
	corsConfig := cors.Config{
		AllowOrigins:  defaultOrigins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowAllOrigins = true
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if services != nil && services.DashboardService != nil {
			status["rows"] = services.DashboardService.Table().Len()
		}
		c.JSON(http.StatusOK, status)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	apiGroup := router.Group("/api/v1")

	if services != nil && services.DashboardService != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.DashboardService)
		dashboardGroup := apiGroup.Group("/dashboard")
		{
			dashboardGroup.GET("", dashboardHandler.GetDashboard)
			dashboardGroup.GET("/overview", dashboardHandler.GetOverview)
			dashboardGroup.GET("/explorer", dashboardHandler.GetExplorer)
			dashboardGroup.GET("/filters", dashboardHandler.GetFilterOptions)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
