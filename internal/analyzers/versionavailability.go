package analyzers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pipeline"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/registry"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// VersionAvailabilityAnalyzer consults package registries for whether an
// extension has a release compatible with the upgrade target.
type VersionAvailabilityAnalyzer struct {
	Clients []registry.PackageRegistryClient
	Logger  *logrus.Logger
}

// NewVersionAvailabilityAnalyzer constructs the analyzer with its
// injected registry clients, consulted in order until one reports a
// match.
func NewVersionAvailabilityAnalyzer(logger *logrus.Logger, clients ...registry.PackageRegistryClient) *VersionAvailabilityAnalyzer {
	return &VersionAvailabilityAnalyzer{Clients: clients, Logger: logger}
}

func (a *VersionAvailabilityAnalyzer) Name() string { return "version_availability_analyzer" }
func (a *VersionAvailabilityAnalyzer) Description() string {
	return "Checks whether a target-compatible release is published for this extension"
}
func (a *VersionAvailabilityAnalyzer) RequiredTools() []string { return nil }
func (a *VersionAvailabilityAnalyzer) HasRequiredTools() bool  { return true }

func (a *VersionAvailabilityAnalyzer) Supports(ext types.Extension) bool {
	return ext.Kind == types.ExtensionThirdParty && identifierFor(ext) != ""
}

// Analyze queries every configured registry client in order; the first
// to report a match wins. A client error is logged and swallowed into
// available=false; analysis stays successful.
func (a *VersionAvailabilityAnalyzer) Analyze(ctx context.Context, ext types.Extension, analysisCtx types.AnalysisContext) types.AnalysisResult {
	result := types.AnalysisResult{AnalyzerName: a.Name(), Extension: ext, Successful: true}

	identifier := identifierFor(ext)
	available := false
	checkedRegistries := 0

	for _, client := range a.Clients {
		checkedRegistries++
		found, err := client.HasVersionFor(ctx, identifier, analysisCtx.TargetVersion)
		if err != nil {
			if a.Logger != nil {
				a.Logger.Warnf("registry lookup failed for %s: %v", identifier, err)
			}
			continue
		}
		if found {
			available = true
			break
		}
	}

	result.Metrics = map[string]interface{}{
		"available":           available,
		"identifier":          identifier,
		"registries_consulted": checkedRegistries,
	}

	if available {
		result.RiskScore = 1.0
	} else {
		result.RiskScore = 7.0
		result.Recommendations = append(result.Recommendations, "no published release targets the upgrade version; plan for a manual fork or replacement")
	}
	return result
}

// identifierFor returns the registry lookup key for an extension: its
// composer-equivalent package name when dependency-manager-installed,
// else its key.
func identifierFor(ext types.Extension) string {
	if ext.PackageName != "" {
		return ext.PackageName
	}
	return ext.Key
}

var _ pipeline.Analyzer = (*VersionAvailabilityAnalyzer)(nil)
