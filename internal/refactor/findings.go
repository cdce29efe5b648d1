package refactor

import (
	"fmt"
	"strings"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/rules"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// Classifier resolves a rule ID to (change_kind, severity); satisfied by
// *rules.Registry, injected so the driver never hard-depends on the
// concrete registry type.
type Classifier interface {
	Classify(ruleID string) (types.ChangeKind, types.Severity)
}

// Synthesize converts a ParsedOutput into a Finding stream, covering
// both the modern and legacy schema branches.
func Synthesize(parsed ParsedOutput, classifier Classifier) []types.Finding {
	if parsed.IsModern {
		return synthesizeModern(parsed.Modern, classifier)
	}
	return synthesizeLegacy(parsed.Legacy, classifier)
}

func synthesizeModern(out *modernOutput, classifier Classifier) []types.Finding {
	var findings []types.Finding

	for _, fd := range out.FileDiffs {
		oldCode, newCode := splitDiff(fd.Diff)

		for _, ruleID := range fd.AppliedRectors {
			kind, severity := classifier.Classify(ruleID)
			finding := types.NewFinding(fd.File, 0, ruleID, fmt.Sprintf("Code change detected by %s", ruleID), severity, kind)
			if oldCode != "" || newCode != "" {
				finding = finding.WithDiff(oldCode, newCode)
			}
			findings = append(findings, finding)
		}
	}

	return findings
}

func synthesizeLegacy(out *legacyOutput, classifier Classifier) []types.Finding {
	var findings []types.Finding

	for _, cf := range out.ChangedFiles {
		if cf.isString {
			findings = append(findings, types.NewFinding(cf.file, 0, "", "Code change detected", types.SeverityInfo, types.ChangeBestPractice))
			continue
		}

		for _, rector := range cf.AppliedRectors {
			kind, severity := classifier.Classify(rector.Class)
			finding := types.NewFinding(cf.File, rector.Line, rector.Class, rector.Message, severity, kind)
			if rector.Old != "" || rector.New != "" {
				finding = finding.WithDiff(rector.Old, rector.New)
			}
			findings = append(findings, finding)
		}
	}

	return findings
}

// splitDiff splits a unified diff into old/new code by filtering lines
// starting with "-"/"+", excluding the "---"/"+++" file headers.
func splitDiff(diff string) (oldCode, newCode string) {
	if diff == "" {
		return "", ""
	}

	var oldLines, newLines []string
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++"):
			continue
		case strings.HasPrefix(line, "-"):
			oldLines = append(oldLines, strings.TrimPrefix(line, "-"))
		case strings.HasPrefix(line, "+"):
			newLines = append(newLines, strings.TrimPrefix(line, "+"))
		}
	}

	return strings.Join(oldLines, "\n"), strings.Join(newLines, "\n")
}

var _ Classifier = (*rules.Registry)(nil)
