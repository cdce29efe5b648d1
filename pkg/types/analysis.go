package types

// ResultCacheConfig controls the Cached Analyzer Contract's caching
// behaviour for a run.
type ResultCacheConfig struct {
	Enabled bool
	TTLSeconds int
}

// AnalysisContext carries the run-wide parameters every analyzer consults:
// the upgrade's source/target version and installation location.
type AnalysisContext struct {
	CurrentVersion   Version
	TargetVersion    Version
	InstallationPath string
	CustomPaths      map[string]string
	ResultCache      ResultCacheConfig
}

// AnalysisResult is what one analyzer produces for one extension.
type AnalysisResult struct {
	AnalyzerName    string
	Extension       Extension
	Metrics         map[string]interface{}
	RiskScore       float64
	Recommendations []string
	Successful      bool
	Error           string
}

// ClampRiskScore enforces the [1.0, 10.0] invariant every AnalysisResult
// must satisfy.
func ClampRiskScore(score float64) float64 {
	switch {
	case score < 1.0:
		return 1.0
	case score > 10.0:
		return 10.0
	default:
		return score
	}
}

// RiskLevel is the coarse-grained readiness classification derived from a
// readiness score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// AggregatedSummary is the engine's final per-installation-run rollup.
type AggregatedSummary struct {
	Total         int
	Critical      int
	Warning       int
	Info          int
	Suggestion    int
	AffectedFiles int
	TotalFiles    int
	ByRule        map[string]int
	ByFile        map[string]int
	ByKind        map[ChangeKind]int
	Complexity    float64
	EstFixMinutes int
	Readiness     float64
	RiskLevel     RiskLevel
}
