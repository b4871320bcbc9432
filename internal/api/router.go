package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/prop-sheet/internal/api/handlers"
	"github.com/jstittsworth/prop-sheet/internal/services"
)

// SetupRoutes configures the scheduler-mode status surface.
func SetupRoutes(router *gin.Engine, fetcher *services.FetcherService) {
	healthHandler := handlers.NewHealthHandler()
	runHandler := handlers.NewRunHandler(fetcher)

	router.GET("/health", healthHandler.GetHealth)

	v1 := router.Group("/api/v1")
	v1.POST("/runs", runHandler.TriggerRun)
	v1.GET("/runs/latest", runHandler.GetLatestRun)
	v1.GET("/status", runHandler.GetStatus)
}
