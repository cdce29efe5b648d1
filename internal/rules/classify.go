package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// platformVendorPrefix is the naming prefix every first-party rule
// carries, used by IsKnownRule.
const platformVendorPrefix = "Typo3_"

var versionTokenPattern = regexp.MustCompile(`v(\d+)\\`)

func hasVendorPrefix(ruleID string) bool {
	return strings.HasPrefix(ruleID, platformVendorPrefix)
}

// versionTokenMajor extracts the major version N from a "vN\" token
// embedded in a rule ID (e.g. "Rector\Typo3\v12\RemoveClassRector"),
// returning 0 when no such token is present.
func versionTokenMajor(ruleID string) int {
	m := versionTokenPattern.FindStringSubmatch(ruleID)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ClassifyByPattern implements the order-sensitive rule classification
// table. It is consulted directly when no catalog
// descriptor matches a rule ID — whether because the catalog has not
// been loaded or because the ID was discovered live from the Refactor
// Driver's output and postdates the shipped catalog.
func ClassifyByPattern(ruleID string) (types.ChangeKind, types.Severity) {
	containsRemove := strings.Contains(ruleID, "Remove")
	containsMethod := strings.Contains(ruleID, "Method")
	containsClass := strings.Contains(ruleID, "Class")
	containsBreaking := strings.Contains(ruleID, "Breaking")
	containsSubstitute := strings.Contains(ruleID, "Substitute")
	containsReplace := strings.Contains(ruleID, "Replace")
	containsMigrate := strings.Contains(ruleID, "Migrate")
	containsCodeQuality := strings.Contains(ruleID, "CodeQuality")
	containsGeneral := strings.Contains(ruleID, "General")

	switch {
	case containsRemove && containsMethod:
		return types.ChangeMethodSignature, types.SeverityCritical
	case containsRemove && containsClass:
		return types.ChangeClassRemoval, types.SeverityCritical
	case containsRemove || containsBreaking:
		return types.ChangeBreaking, types.SeverityCritical
	case containsSubstitute || containsReplace:
		return types.ChangeDeprecation, types.SeverityWarning
	case containsMigrate:
		return types.ChangeConfiguration, types.SeverityInfo
	}

	if major := versionTokenMajor(ruleID); major > 0 {
		if major >= 12 {
			return types.ChangeBreaking, types.SeverityCritical
		}
		if major == 10 || major == 11 {
			return types.ChangeDeprecation, types.SeverityWarning
		}
	}

	if containsCodeQuality || containsGeneral {
		return types.ChangeBestPractice, types.SeverityInfo
	}

	return types.ChangeDeprecation, types.SeverityWarning
}
