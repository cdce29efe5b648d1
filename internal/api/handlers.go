package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// Handlers wires the Engine and RunStore into gin route handlers.
type Handlers struct {
	engine   *Engine
	store    *RunStore
	renderer ReportRenderer
	logger   *logrus.Logger
}

// NewHandlers constructs a Handlers set.
func NewHandlers(engine *Engine, store *RunStore, renderer ReportRenderer, logger *logrus.Logger) *Handlers {
	if renderer == nil {
		renderer = JSONRenderer{}
	}
	return &Handlers{engine: engine, store: store, renderer: renderer, logger: logger}
}

// createRunRequest is the POST /api/v1/runs request body.
type createRunRequest struct {
	InstallationPath string `json:"installation_path" binding:"required"`
	InstallationKind string `json:"installation_kind"`
	CurrentVersion   string `json:"current_version" binding:"required"`
	TargetVersion    string `json:"target_version" binding:"required"`
}

// CreateRun triggers one synchronous analysis run and returns its
// rendered result.
func (h *Handlers) CreateRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentVersion, err := types.ParseVersion(req.CurrentVersion)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid current_version: " + err.Error()})
		return
	}
	targetVersion, err := types.ParseVersion(req.TargetVersion)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target_version: " + err.Error()})
		return
	}

	kind := types.InstallationKind(req.InstallationKind)
	if kind == "" {
		kind = types.InstallationAutoDetect
	}

	run, err := h.engine.Run(c.Request.Context(), RunRequest{
		InstallationPath: req.InstallationPath,
		InstallationKind: kind,
		CurrentVersion:   currentVersion,
		TargetVersion:    targetVersion,
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("analysis run failed: %v", err)
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.store.Put(run)
	h.renderRun(c, http.StatusCreated, run)
}

// GetRun retrieves a previously completed run by ID.
func (h *Handlers) GetRun(c *gin.Context) {
	id := c.Param("id")
	run, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	h.renderRun(c, http.StatusOK, run)
}

func (h *Handlers) renderRun(c *gin.Context, status int, run RunResult) {
	body, err := h.renderer.Render(run)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render run"})
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}
