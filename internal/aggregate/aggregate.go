// Package aggregate implements the Result Aggregator (C5): grouping a
// Finding stream into severity/file/rule lenses and deriving the
// complexity, estimated-fix-time, and readiness metrics.
package aggregate

import (
	"math"
	"sort"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/taxonomy"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// Summarize groups findings and computes the full AggregatedSummary.
func Summarize(findings []types.Finding) types.AggregatedSummary {
	summary := types.AggregatedSummary{
		ByRule: map[string]int{},
		ByFile: map[string]int{},
		ByKind: map[types.ChangeKind]int{},
	}

	files := map[string]struct{}{}
	manualCount := 0

	for _, f := range findings {
		summary.Total++
		switch f.Severity {
		case types.SeverityCritical:
			summary.Critical++
		case types.SeverityWarning:
			summary.Warning++
		case types.SeverityInfo:
			summary.Info++
		case types.SeveritySuggestion:
			summary.Suggestion++
		}

		summary.ByRule[f.RuleID]++
		summary.ByFile[f.File]++
		summary.ByKind[f.ChangeKind]++
		files[f.File] = struct{}{}

		summary.EstFixMinutes += taxonomy.EstimatedMinutes(f.ChangeKind)
		if taxonomy.RequiresManual(f.ChangeKind) {
			manualCount++
		}
	}

	summary.AffectedFiles = len(files)
	summary.TotalFiles = len(files)

	summary.Complexity = complexityScore(summary, manualCount)
	summary.Readiness = readinessScore(summary)
	summary.RiskLevel = riskLevelFor(summary.Readiness)

	return summary
}

// complexityScore implements the four-factor weighted formula,
// normalized to [0,10] and rounded to one decimal.
func complexityScore(summary types.AggregatedSummary, manualCount int) float64 {
	if summary.Total == 0 {
		return 0.0
	}

	ruleDiversity := math.Min(float64(len(summary.ByRule))/10.0, 1.0) * 0.3
	fileSpread := math.Min(float64(len(summary.ByFile))/20.0, 1.0) * 0.2
	severityMix := shannonSeverityEntropy(summary) * 0.3
	manualRatio := (float64(manualCount) / float64(summary.Total)) * 0.2

	score := (ruleDiversity + fileSpread + severityMix + manualRatio) * 10
	return math.Round(score*10) / 10
}

// shannonSeverityEntropy computes the normalized Shannon entropy (base 2,
// divided by log2(4) = 2) over the four severity bucket counts.
func shannonSeverityEntropy(summary types.AggregatedSummary) float64 {
	counts := []int{summary.Critical, summary.Warning, summary.Info, summary.Suggestion}
	total := summary.Total
	if total == 0 {
		return 0.0
	}

	var entropy float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}

	return entropy / 2.0
}

// readinessScore implements the subtraction formula, clamped
// to [1,10].
func readinessScore(summary types.AggregatedSummary) float64 {
	if summary.Total == 0 {
		return 10.0
	}

	affectedRatio := float64(summary.AffectedFiles) / float64(summary.Total)

	score := 10.0 -
		0.8*float64(summary.Critical) -
		0.3*float64(summary.Warning) -
		0.1*float64(summary.Info) -
		summary.Complexity/2 -
		affectedRatio*2

	switch {
	case score < 1.0:
		return 1.0
	case score > 10.0:
		return 10.0
	default:
		return score
	}
}

// riskLevelFor maps a readiness score to the coarse-grained classification.
func riskLevelFor(readiness float64) types.RiskLevel {
	switch {
	case readiness >= 8:
		return types.RiskLow
	case readiness >= 6:
		return types.RiskMedium
	case readiness >= 3:
		return types.RiskHigh
	default:
		return types.RiskCritical
	}
}

// TopFiles returns the top N files by finding count, descending, ties
// broken by lexical key order.
func TopFiles(summary types.AggregatedSummary, n int) []KeyCount {
	return topN(summary.ByFile, n)
}

// TopRules returns the top N rules by finding count, descending, ties
// broken by lexical key order.
func TopRules(summary types.AggregatedSummary, n int) []KeyCount {
	return topN(summary.ByRule, n)
}

// KeyCount is one entry of a top-N ranking.
type KeyCount struct {
	Key   string
	Count int
}

const defaultTopN = 10

func topN(counts map[string]int, n int) []KeyCount {
	if n <= 0 {
		n = defaultTopN
	}

	entries := make([]KeyCount, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, KeyCount{Key: k, Count: c})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// SortFindings imposes the canonical ordering: severity
// critical→warning→info→suggestion, ties broken by (file asc, line asc,
// rule_id asc).
func SortFindings(findings []types.Finding) []types.Finding {
	sorted := append([]types.Finding(nil), findings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.RuleID < b.RuleID
	})
	return sorted
}
