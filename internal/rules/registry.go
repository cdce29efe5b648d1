package rules

import (
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// Registry is the C3 Rule Registry: it holds the parsed rule-set catalog
// and answers both questions the rest of the pipeline needs — which rule
// sets apply to an upgrade, and how to classify an arbitrary rule ID.
type Registry struct {
	sets []types.RuleSet
}

// NewRegistry builds a Registry from the embedded catalog.
func NewRegistry() (*Registry, error) {
	sets, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	return &Registry{sets: sets}, nil
}

// NewRegistryFromSets builds a Registry from an explicit set list,
// primarily for tests exercising the selection algorithm in isolation.
func NewRegistryFromSets(sets []types.RuleSet) *Registry {
	return &Registry{sets: sets}
}

func (r *Registry) genericSets() []types.RuleSet {
	var out []types.RuleSet
	for _, s := range r.sets {
		if s.Generic {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) codeQualitySets() []types.RuleSet {
	var out []types.RuleSet
	for _, s := range r.sets {
		if s.CodeQuality {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) versionSpecificSets() []types.RuleSet {
	var out []types.RuleSet
	for _, s := range r.sets {
		if !s.Generic && !s.CodeQuality {
			out = append(out, s)
		}
	}
	return out
}

// supportsMajor reports whether the catalog carries at least one
// version-specific set whose major version matches from.Major.
func (r *Registry) supportsMajor(major int) bool {
	for _, s := range r.versionSpecificSets() {
		if s.MinVersion.Major == major {
			return true
		}
	}
	return false
}

// SelectSets implements the set-selection algorithm.
func (r *Registry) SelectSets(from, to types.Version) []types.RuleSet {
	if from.Equal(to) {
		var out []types.RuleSet
		out = append(out, r.genericSets()...)
		out = append(out, r.codeQualitySets()...)
		return out
	}

	if from.Compare(to) > 0 {
		return nil
	}

	if !r.supportsMajor(from.Major) {
		return nil
	}

	var out []types.RuleSet
	for _, s := range r.versionSpecificSets() {
		v := s.MinVersion
		if v.IsGreaterThan(from) && !v.IsGreaterThan(to) {
			out = append(out, s)
		}
	}
	out = append(out, r.genericSets()...)

	if from.Major != to.Major {
		out = append(out, r.codeQualitySets()...)
	}

	return out
}

// IsKnownRule reports whether ruleID matches the platform vendor prefix
// or the version-token pattern recognised by Classify, independent of
// whether the catalog itself carries a matching descriptor.
func (r *Registry) IsKnownRule(ruleID string) bool {
	if hasVendorPrefix(ruleID) {
		return true
	}
	return versionTokenMajor(ruleID) > 0
}

// Classify maps a rule identifier to (change_kind, severity) following
// the deterministic, order-sensitive pattern rules. It
// first consults the catalog's own descriptors (exact pattern match, so
// the shipped catalog takes precedence over the generic fallback rules),
// then falls back to the literal classification table.
func (r *Registry) Classify(ruleID string) (types.ChangeKind, types.Severity) {
	for _, s := range r.sets {
		for _, d := range s.Rules {
			if d.Pattern == ruleID {
				return d.ChangeKind, d.Severity
			}
		}
	}
	return ClassifyByPattern(ruleID)
}

// EffortHours returns the effort hours associated with a rule ID when the
// catalog carries a matching descriptor, or 0 when it does not — callers
// combine this with the taxonomy's estimated-minutes table when absent.
func (r *Registry) EffortHours(ruleID string) (float64, bool) {
	for _, s := range r.sets {
		for _, d := range s.Rules {
			if d.Pattern == ruleID {
				return d.EffortHours, true
			}
		}
	}
	return 0, false
}
