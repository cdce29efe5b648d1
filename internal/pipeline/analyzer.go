// Package pipeline implements the Analyzer Pipeline (C6) and the Cached
// Analyzer Contract (C7): the orchestration shell every analyzer runs
// under.
package pipeline

import (
	"context"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// Analyzer is the contract every concrete analysis implements.
type Analyzer interface {
	Name() string
	Description() string
	Supports(ext types.Extension) bool
	RequiredTools() []string
	HasRequiredTools() bool
	Analyze(ctx context.Context, ext types.Extension, analysisCtx types.AnalysisContext) types.AnalysisResult
}
