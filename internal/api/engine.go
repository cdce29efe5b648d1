// Package api implements the Reporting Surface (A6): the thin HTTP
// layer that triggers an analysis run and exposes its results as JSON,
// plus the health/readiness endpoints of internal/health.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/aggregate"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/discovery"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pipeline"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// ExtensionReport is one extension's full set of analyzer results,
// exactly as the pipeline produced it.
type ExtensionReport struct {
	Extension       types.Extension          `json:"extension"`
	AnalyzerResults []types.AnalysisResult   `json:"analyzer_results"`
}

// RunResult is one complete analysis run: every extension's reports plus
// the aggregated summary derived from their combined finding stream.
type RunResult struct {
	ID               string                 `json:"id"`
	InstallationPath string                 `json:"installation_path"`
	CurrentVersion   types.Version          `json:"current_version"`
	TargetVersion    types.Version          `json:"target_version"`
	Extensions       []ExtensionReport      `json:"extensions"`
	Summary          types.AggregatedSummary `json:"summary"`
	Warnings         []string               `json:"warnings,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// Engine orchestrates one end-to-end run: discovery → pipeline →
// aggregation. ResultCache is applied to every run rather than accepted
// per-request, since whether the pipeline's analyzers were wrapped in
// the Cached Analyzer Contract is itself decided once, at wiring time.
type Engine struct {
	Discoverer  *discovery.Discoverer
	Pipeline    *pipeline.Pipeline
	ResultCache types.ResultCacheConfig
	Logger      *logrus.Logger
}

// NewEngine constructs an Engine from its wired components.
func NewEngine(discoverer *discovery.Discoverer, pl *pipeline.Pipeline, resultCache types.ResultCacheConfig, logger *logrus.Logger) *Engine {
	return &Engine{Discoverer: discoverer, Pipeline: pl, ResultCache: resultCache, Logger: logger}
}

// RunRequest is the parameters of one analysis run.
type RunRequest struct {
	InstallationPath string
	InstallationKind types.InstallationKind
	CurrentVersion   types.Version
	TargetVersion    types.Version
}

// Run performs one synchronous end-to-end analysis: discover the
// installation's extensions, run every analyzer over each, and fold the
// combined finding stream into an AggregatedSummary.
func (e *Engine) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	installation, err := e.Discoverer.Discover(req.InstallationPath, req.InstallationKind)
	if err != nil {
		return RunResult{}, fmt.Errorf("discover installation: %w", err)
	}

	analysisCtx := types.AnalysisContext{
		CurrentVersion:   req.CurrentVersion,
		TargetVersion:    req.TargetVersion,
		InstallationPath: req.InstallationPath,
		ResultCache:      e.ResultCache,
	}

	extensionResults := e.Pipeline.Run(ctx, installation.Extensions, analysisCtx)

	reports := make([]ExtensionReport, 0, len(extensionResults))
	var allFindings []types.Finding
	for _, er := range extensionResults {
		reports = append(reports, ExtensionReport{Extension: er.Extension, AnalyzerResults: er.Results})
		allFindings = append(allFindings, findingsFrom(er.Results)...)
	}

	summary := aggregate.Summarize(allFindings)

	return RunResult{
		ID:               uuid.New().String(),
		InstallationPath: req.InstallationPath,
		CurrentVersion:   req.CurrentVersion,
		TargetVersion:    req.TargetVersion,
		Extensions:       reports,
		Summary:          summary,
		Warnings:         installation.Warnings,
		CreatedAt:        time.Now(),
	}, nil
}

// findingsFrom extracts the Finding slice any refactor-driver analyzer
// may have stashed in its AnalysisResult.Metrics["findings"]; findings
// live inside analyzer metrics rather than as a dedicated AnalysisResult
// field.
func findingsFrom(results []types.AnalysisResult) []types.Finding {
	var out []types.Finding
	for _, r := range results {
		if r.Metrics == nil {
			continue
		}
		if findings, ok := r.Metrics["findings"].([]types.Finding); ok {
			out = append(out, findings...)
		}
	}
	return out
}
