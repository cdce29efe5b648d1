package health

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/cache"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/config"
)

// Checker handles health and readiness checks
type Checker struct {
	config    *config.Config
	logger    *logrus.Logger
	cache     cache.Cache
	startTime time.Time
}

// NewChecker creates a new health checker
func NewChecker(cfg *config.Config, logger *logrus.Logger, c cache.Cache) *Checker {
	return &Checker{
		config:    cfg,
		logger:    logger,
		cache:     c,
		startTime: time.Now(),
	}
}

// refactorToolAvailable reports whether the configured external
// refactoring binary exists and is executable.
func (hc *Checker) refactorToolAvailable() bool {
	info, err := os.Stat(hc.config.Analysis.RefactorTool.BinaryPath)
	if err != nil {
		return false
	}
	return info.Mode()&0o111 != 0
}

// HealthCheck performs a basic liveness check: the process is up and
// able to serve requests.
func (hc *Checker) HealthCheck(c *gin.Context) {
	status := gin.H{
		"service":   "typo3-upgrade-analyser",
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(hc.startTime).String(),
	}

	c.JSON(http.StatusOK, status)
}

// ReadinessCheck performs a readiness check: are the dependencies this
// engine actually needs to do work reachable.
func (hc *Checker) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ready := true
	checks := gin.H{}

	if hc.config.Analysis.ResultCache.Enabled && hc.cache != nil {
		cacheHealthy := hc.cache.Ping(ctx) == nil
		checks["result_cache"] = cacheHealthy
		if !cacheHealthy {
			ready = false
		}
	}

	toolAvailable := hc.refactorToolAvailable()
	checks["refactor_tool"] = toolAvailable
	if !toolAvailable {
		ready = false
	}

	status := gin.H{
		"service":   "typo3-upgrade-analyser",
		"ready":     ready,
		"timestamp": time.Now(),
		"checks":    checks,
	}

	httpStatus := http.StatusOK
	if !ready {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, status)
}
