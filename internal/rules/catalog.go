// Package rules implements the Rule Registry (C3): resolving a
// (from_version, to_version) pair to applicable rule sets, and
// classifying rule identifiers into severity / change kind / effort.
package rules

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

//go:embed data/rulesets.yaml
var embeddedCatalog []byte

type catalogFile struct {
	RuleSets []types.RuleSet `yaml:"rule_sets"`
}

// LoadCatalog parses the embedded rule-set catalog, resolving each
// RuleSet's string version bounds into comparable Version values.
func LoadCatalog() ([]types.RuleSet, error) {
	var file catalogFile
	if err := yaml.Unmarshal(embeddedCatalog, &file); err != nil {
		return nil, fmt.Errorf("parse embedded rule set catalog: %w", err)
	}

	for i := range file.RuleSets {
		rs := &file.RuleSets[i]
		minV, err := types.ParseVersion(rs.MinVersionStr)
		if err != nil {
			return nil, fmt.Errorf("rule set %s: parse min_version: %w", rs.ID, err)
		}
		maxV, err := types.ParseVersion(rs.MaxVersionStr)
		if err != nil {
			return nil, fmt.Errorf("rule set %s: parse max_version: %w", rs.ID, err)
		}
		rs.MinVersion = minV
		rs.MaxVersion = maxV
	}

	return file.RuleSets, nil
}
