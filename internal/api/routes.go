package api

import (
	"github.com/gin-gonic/gin"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/health"
)

// SetupRoutes wires the health/readiness endpoints and the /api/v1/runs
// surface onto router, mirroring this codebase's SetupRoutes convention.
func SetupRoutes(router *gin.Engine, checker *health.Checker, handlers *Handlers) {
	router.GET("/health", checker.HealthCheck)
	router.GET("/ready", checker.ReadinessCheck)

	v1 := router.Group("/api/v1")
	runs := v1.Group("/runs")
	runs.POST("", handlers.CreateRun)
	runs.GET("/:id", handlers.GetRun)
}
