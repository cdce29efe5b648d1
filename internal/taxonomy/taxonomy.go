// Package taxonomy holds the Finding Taxonomy (C1): the closed ChangeKind
// and Severity enumerations and their derived tables. It is the source
// the Result Aggregator consults when it needs to turn a
// ChangeKind into minutes, a category, a manual-intervention flag, or a
// Severity.
package taxonomy

import "github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"

// changeKindInfo is the per-ChangeKind derived data.
type changeKindInfo struct {
	estimatedMinutes int
	category         string
	requiresManual   bool
	severity         types.Severity
}

var table = map[types.ChangeKind]changeKindInfo{
	types.ChangeBreaking:        {60, "Breaking Changes", true, types.SeverityCritical},
	types.ChangeClassRemoval:    {45, "Breaking Changes", true, types.SeverityCritical},
	types.ChangeInterface:       {30, "API Changes", true, types.SeverityWarning},
	types.ChangeMethodSignature: {20, "API Changes", true, types.SeverityWarning},
	types.ChangeConfiguration:   {15, "Configuration", true, types.SeverityInfo},
	types.ChangeDeprecation:     {10, "Deprecations", false, types.SeverityWarning},
	types.ChangeAnnotation:      {5, "Configuration", false, types.SeverityInfo},
	types.ChangeBestPractice:    {8, "Code Quality", false, types.SeveritySuggestion},
	types.ChangePerformance:     {12, "Performance", false, types.SeveritySuggestion},
	types.ChangeSecurity:        {25, "Security", false, types.SeverityInfo},
	types.ChangeCodeStyle:       {3, "Code Quality", false, types.SeveritySuggestion},
}

// All enumerates every closed ChangeKind, in the table's canonical order.
func All() []types.ChangeKind {
	return []types.ChangeKind{
		types.ChangeBreaking,
		types.ChangeClassRemoval,
		types.ChangeInterface,
		types.ChangeMethodSignature,
		types.ChangeConfiguration,
		types.ChangeDeprecation,
		types.ChangeAnnotation,
		types.ChangeBestPractice,
		types.ChangePerformance,
		types.ChangeSecurity,
		types.ChangeCodeStyle,
	}
}

// EstimatedMinutes returns the expected manual remediation time for a
// change kind.
func EstimatedMinutes(kind types.ChangeKind) int {
	return table[kind].estimatedMinutes
}

// Category returns the display category a change kind is grouped under.
func Category(kind types.ChangeKind) string {
	return table[kind].category
}

// RequiresManual reports whether a change kind cannot be resolved purely
// mechanically.
func RequiresManual(kind types.ChangeKind) bool {
	return table[kind].requiresManual
}

// SeverityFor returns the severity associated with a change kind. The
// mapping is total: every ChangeKind in the closed set resolves to
// exactly one Severity.
func SeverityFor(kind types.ChangeKind) types.Severity {
	info, ok := table[kind]
	if !ok {
		return types.SeverityWarning
	}
	return info.severity
}
