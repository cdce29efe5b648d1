package types

// RuleDescriptor classifies a single named rule into the taxonomy the
// Refactor Driver and Rule Registry both consume.
type RuleDescriptor struct {
	Pattern     string `yaml:"pattern"`
	ChangeKind  ChangeKind `yaml:"change_kind"`
	Severity    Severity   `yaml:"severity"`
	EffortHours float64    `yaml:"effort_hours"`
}

// RuleSet is a named, version-scoped group of rule descriptors.
type RuleSet struct {
	ID         string           `yaml:"id"`
	MinVersion Version          `yaml:"-"`
	MaxVersion Version          `yaml:"-"`
	MinVersionStr string        `yaml:"min_version"`
	MaxVersionStr string        `yaml:"max_version"`
	Generic    bool             `yaml:"generic"`
	CodeQuality bool            `yaml:"code_quality"`
	Rules      []RuleDescriptor `yaml:"rules"`
}
