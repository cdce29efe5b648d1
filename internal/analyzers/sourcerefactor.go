package analyzers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pathresolve"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pipeline"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/refactor"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/rules"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// SourceRefactorAnalyzer is the primary Refactor Driver analyzer: it
// runs the external refactoring tool over an extension's whole source
// tree against every rule set the upgrade range selects.
type SourceRefactorAnalyzer struct {
	Resolver *pathresolve.Resolver
	Registry *rules.Registry
	Driver   *refactor.Driver
}

// NewSourceRefactorAnalyzer constructs a SourceRefactorAnalyzer.
func NewSourceRefactorAnalyzer(resolver *pathresolve.Resolver, registry *rules.Registry, driver *refactor.Driver) *SourceRefactorAnalyzer {
	return &SourceRefactorAnalyzer{Resolver: resolver, Registry: registry, Driver: driver}
}

func (a *SourceRefactorAnalyzer) Name() string        { return "source_refactor_analyzer" }
func (a *SourceRefactorAnalyzer) Description() string { return "Runs the refactoring tool over an extension's PHP source tree" }
func (a *SourceRefactorAnalyzer) RequiredTools() []string {
	return []string{a.Driver.BinaryPath}
}
func (a *SourceRefactorAnalyzer) HasRequiredTools() bool { return a.Driver.HasRequiredTools() }
func (a *SourceRefactorAnalyzer) Supports(types.Extension) bool { return true }

func (a *SourceRefactorAnalyzer) Analyze(ctx context.Context, ext types.Extension, analysisCtx types.AnalysisContext) types.AnalysisResult {
	result := types.AnalysisResult{AnalyzerName: a.Name(), Extension: ext}

	req := types.PathRequest{
		PathKind:         types.PathKindExtension,
		InstallationKind: types.InstallationAutoDetect,
		InstallationPath: analysisCtx.InstallationPath,
		ExtensionRef:     &ext,
		Config:           types.PathRequestConfig{ValidateExists: true},
	}
	resp := a.Resolver.Resolve(req)
	if resp.Status != types.PathStatusOK {
		result.Successful = false
		result.Error = "could not resolve extension root: " + joinStrings(resp.Errors)
		result.RiskScore = 5.0
		return result
	}

	sets := a.Registry.SelectSets(analysisCtx.CurrentVersion, analysisCtx.TargetVersion)
	setIDs := make([]string, 0, len(sets))
	for _, s := range sets {
		setIDs = append(setIDs, s.ID)
	}

	outcome := a.Driver.Run(ctx, ext, resp.ResolvedPath, setIDs, analysisCtx.TargetVersion)
	return resultFromDriverOutcome(a.Name(), ext, outcome)
}

// resultFromDriverOutcome translates a refactor.Result into the
// AnalysisResult shape: timeouts and tool failures become failure
// results with fixed risk scores, successful parses become a successful
// result carrying metrics and findings.
func resultFromDriverOutcome(analyzerName string, ext types.Extension, outcome refactor.Result) types.AnalysisResult {
	result := types.AnalysisResult{AnalyzerName: analyzerName, Extension: ext}

	switch outcome.State {
	case refactor.StateTimedOut:
		result.Successful = false
		result.Error = firstOrEmpty(outcome.Errors)
		result.RiskScore = 8.0
		result.Recommendations = []string{"manual code review recommended"}
		return result
	case refactor.StateFailed:
		result.Successful = false
		result.Error = firstOrEmpty(outcome.Errors)
		result.RiskScore = 5.0
		return result
	case refactor.StateParsed:
		result.Successful = false
		result.Error = firstOrEmpty(outcome.Errors)
		result.RiskScore = 5.0
		return result
	}

	result.Successful = true
	result.Metrics = map[string]interface{}{
		"findings":     outcome.Findings,
		"finding_count": len(outcome.Findings),
		"elapsed_s":    outcome.ElapsedS,
	}
	if len(outcome.Errors) > 0 {
		result.Metrics["tool_warnings"] = outcome.Errors
	}
	result.RiskScore = types.ClampRiskScore(2.0 + float64(len(outcome.Findings))*0.3)
	return result
}

func firstOrEmpty(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

var _ pipeline.Analyzer = (*SourceRefactorAnalyzer)(nil)
