package analyzers

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pathresolve"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pipeline"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

var hostLanguageExtensions = map[string]bool{
	".php": true,
}

// LinesOfCodeAnalyzer walks an extension's resolved source tree and
// counts host-language source lines, used as a crude proxy for how much
// surface a manual upgrade review would need to cover.
type LinesOfCodeAnalyzer struct {
	Resolver *pathresolve.Resolver
	Logger   *logrus.Logger
}

// NewLinesOfCodeAnalyzer constructs a LinesOfCodeAnalyzer.
func NewLinesOfCodeAnalyzer(resolver *pathresolve.Resolver, logger *logrus.Logger) *LinesOfCodeAnalyzer {
	return &LinesOfCodeAnalyzer{Resolver: resolver, Logger: logger}
}

func (a *LinesOfCodeAnalyzer) Name() string            { return "lines_of_code_analyzer" }
func (a *LinesOfCodeAnalyzer) Description() string     { return "Counts host-language source lines under an extension's root" }
func (a *LinesOfCodeAnalyzer) RequiredTools() []string  { return nil }
func (a *LinesOfCodeAnalyzer) HasRequiredTools() bool   { return true }
func (a *LinesOfCodeAnalyzer) Supports(types.Extension) bool { return true }

func (a *LinesOfCodeAnalyzer) Analyze(ctx context.Context, ext types.Extension, analysisCtx types.AnalysisContext) types.AnalysisResult {
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

	fileCount, lineCount, err := walkSourceTree(resp.ResolvedPath)
	if err != nil {
		result.Successful = false
		result.Error = err.Error()
		result.RiskScore = 5.0
		return result
	}

	result.Successful = true
	result.Metrics = map[string]interface{}{
		"source_files": fileCount,
		"lines_of_code": lineCount,
	}
	result.RiskScore = types.ClampRiskScore(locRiskScore(lineCount))
	return result
}

func walkSourceTree(root string) (int, int, error) {
	fileCount := 0
	lineCount := 0

	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		if !hostLanguageExtensions[filepath.Ext(path)] {
			return nil
		}
		contents, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		fileCount++
		lineCount += countLines(contents)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return fileCount, lineCount, nil
}

func countLines(contents []byte) int {
	if len(contents) == 0 {
		return 0
	}
	count := 0
	for _, b := range contents {
		if b == '\n' {
			count++
		}
	}
	if contents[len(contents)-1] != '\n' {
		count++
	}
	return count
}

// locRiskScore scales risk with codebase size: larger extensions carry
// more surface area for an upgrade to break.
func locRiskScore(lines int) float64 {
	switch {
	case lines < 500:
		return 2.0
	case lines < 2000:
		return 4.0
	case lines < 5000:
		return 6.0
	default:
		return 8.0
	}
}

func joinStrings(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += "; "
		}
		out += s
	}
	return out
}

var _ pipeline.Analyzer = (*LinesOfCodeAnalyzer)(nil)
