package analyzers

import (
	"context"
	"os"
	"path/filepath"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pathresolve"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pipeline"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/refactor"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/rules"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// templateConfigDirs are the conventional subdirectories holding
// template and configuration assets rather than PHP classes.
var templateConfigDirs = []string{"Configuration", "Resources"}

// TemplateRefactorAnalyzer is the second Refactor Driver analyzer: it
// runs the same external tool contract, scoped to an extension's
// template/config subdirectories instead of its PHP source tree, against
// generic and code-quality rule sets only (version-scoped class-level
// rectors have nothing to match there).
type TemplateRefactorAnalyzer struct {
	Resolver *pathresolve.Resolver
	Registry *rules.Registry
	Driver   *refactor.Driver
}

// NewTemplateRefactorAnalyzer constructs a TemplateRefactorAnalyzer.
func NewTemplateRefactorAnalyzer(resolver *pathresolve.Resolver, registry *rules.Registry, driver *refactor.Driver) *TemplateRefactorAnalyzer {
	return &TemplateRefactorAnalyzer{Resolver: resolver, Registry: registry, Driver: driver}
}

func (a *TemplateRefactorAnalyzer) Name() string        { return "template_refactor_analyzer" }
func (a *TemplateRefactorAnalyzer) Description() string { return "Runs the refactoring tool over an extension's template/config directories" }
func (a *TemplateRefactorAnalyzer) RequiredTools() []string {
	return []string{a.Driver.BinaryPath}
}
func (a *TemplateRefactorAnalyzer) HasRequiredTools() bool { return a.Driver.HasRequiredTools() }

// Supports reports true unconditionally; Analyze degrades to a
// successful no-op result when none of the conventional template/config
// subdirectories exist.
func (a *TemplateRefactorAnalyzer) Supports(types.Extension) bool { return true }

func (a *TemplateRefactorAnalyzer) Analyze(ctx context.Context, ext types.Extension, analysisCtx types.AnalysisContext) types.AnalysisResult {
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

	targetDir, ok := firstExistingSubdir(resp.ResolvedPath, templateConfigDirs)
	if !ok {
		result.Successful = true
		result.Metrics = map[string]interface{}{"template_config_dirs_present": false}
		result.RiskScore = 1.0
		return result
	}

	sets := a.Registry.SelectSets(analysisCtx.CurrentVersion, analysisCtx.TargetVersion)
	setIDs := make([]string, 0, len(sets))
	for _, s := range sets {
		if s.Generic || s.CodeQuality {
			setIDs = append(setIDs, s.ID)
		}
	}

	outcome := a.Driver.Run(ctx, ext, targetDir, setIDs, analysisCtx.TargetVersion)
	result = resultFromDriverOutcome(a.Name(), ext, outcome)
	if result.Successful {
		result.Metrics["template_config_dirs_present"] = true
	}
	return result
}

func firstExistingSubdir(root string, candidates []string) (string, bool) {
	for _, c := range candidates {
		dir := filepath.Join(root, c)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
	}
	return "", false
}

var _ pipeline.Analyzer = (*TemplateRefactorAnalyzer)(nil)
