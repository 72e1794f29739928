// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangrahak/inventroops/internal/api/handlers"
	"github.com/sangrahak/inventroops/internal/api/middleware"
	"github.com/sangrahak/inventroops/internal/service"
)

type Services struct {
	PredictionService *service.PredictionService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	modelLoaded := services != nil && services.PredictionService != nil
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"modelLoaded": modelLoaded,
		})
	})

	if services != nil && services.PredictionService != nil {
		predictHandler := handlers.NewPredictHandler(services.PredictionService)
		mlGroup := router.Group("/api/ml")
		{
			mlGroup.GET("/status", predictHandler.Status)
			mlGroup.POST("/predict/custom", predictHandler.PredictCustom)
			mlGroup.GET("/alerts", predictHandler.ListAlerts)
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
