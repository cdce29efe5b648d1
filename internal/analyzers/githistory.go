// Package analyzers holds the concrete Analyzer implementations:
// version-availability, lines-of-code, the two Refactor Driver wrappers,
// and the Repository History Analyzer (A7).
package analyzers

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pathresolve"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pipeline"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

const (
	gitHistoryWindow     = 90 * 24 * time.Hour
	gitHistoryMaxCommits = 200
	churnRiskThreshold   = 15
)

// GitHistoryAnalyzer implements the Repository History Analyzer (A7):
// recent commit churn on an extension's path is a proxy for how risky
// touching that code during the upgrade will be.
type GitHistoryAnalyzer struct {
	Resolver *pathresolve.Resolver
	Logger   *logrus.Logger
}

// NewGitHistoryAnalyzer constructs a GitHistoryAnalyzer.
func NewGitHistoryAnalyzer(resolver *pathresolve.Resolver, logger *logrus.Logger) *GitHistoryAnalyzer {
	return &GitHistoryAnalyzer{Resolver: resolver, Logger: logger}
}

func (a *GitHistoryAnalyzer) Name() string        { return "git_history_analyzer" }
func (a *GitHistoryAnalyzer) Description() string { return "Scores recent commit churn on an extension's path" }
func (a *GitHistoryAnalyzer) RequiredTools() []string { return nil }
func (a *GitHistoryAnalyzer) HasRequiredTools() bool  { return true }

// Supports reports true unconditionally: lack of a git repository is a
// degraded-mode outcome reported through Metrics, not an unsupported
// extension.
func (a *GitHistoryAnalyzer) Supports(ext types.Extension) bool {
	return true
}

// Analyze walks at most the gitHistoryMaxCommits most recent commits
// reachable from HEAD, counts those within gitHistoryWindow that touch the
// extension's resolved path, and derives a churn-weighted risk score.
func (a *GitHistoryAnalyzer) Analyze(ctx context.Context, ext types.Extension, analysisCtx types.AnalysisContext) types.AnalysisResult {
	result := types.AnalysisResult{AnalyzerName: a.Name(), Extension: ext}

	repo, err := git.PlainOpenWithOptions(analysisCtx.InstallationPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if a.Logger != nil {
			a.Logger.Warnf("could not open git repository for %s: %v", ext.Key, err)
		}
		result.Successful = true
		result.Metrics = map[string]interface{}{"git_available": false}
		result.RiskScore = 1.0
		return result
	}

	extPath := ext.Key
	req := types.PathRequest{
		PathKind:         types.PathKindExtension,
		InstallationKind: types.InstallationAutoDetect,
		InstallationPath: analysisCtx.InstallationPath,
		ExtensionRef:     &ext,
		Config:           types.PathRequestConfig{ValidateExists: true},
	}
	if resp := a.Resolver.Resolve(req); resp.Status == types.PathStatusOK {
		extPath = resp.ResolvedPath
	}

	commits, authors, linesChanged, err := a.walkRecentCommits(repo, extPath)
	if err != nil {
		result.Successful = true
		result.Metrics = map[string]interface{}{"git_available": false, "error": err.Error()}
		result.RiskScore = 1.0
		return result
	}

	result.Successful = true
	result.Metrics = map[string]interface{}{
		"git_available":    true,
		"commits_last_90d": commits,
		"authors":          len(authors),
		"lines_changed":    linesChanged,
	}
	result.RiskScore = types.ClampRiskScore(churnRiskScore(commits, linesChanged))
	if commits >= churnRiskThreshold {
		result.Recommendations = append(result.Recommendations, "frequently-changed code: prioritize manual review of this extension before upgrading")
	}
	return result
}

func (a *GitHistoryAnalyzer) walkRecentCommits(repo *git.Repository, extPath string) (int, map[string]struct{}, int, error) {
	head, err := repo.Head()
	if err != nil {
		return 0, nil, 0, err
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return 0, nil, 0, err
	}

	cutoff := time.Now().Add(-gitHistoryWindow)
	authors := map[string]struct{}{}
	commits := 0
	linesChanged := 0
	seen := 0

	err = iter.ForEach(func(c *object.Commit) error {
		seen++
		if seen > gitHistoryMaxCommits {
			return nil
		}
		if c.Author.When.Before(cutoff) {
			return nil
		}

		stats, statErr := c.Stats()
		if statErr != nil {
			return nil
		}

		touches := false
		for _, stat := range stats {
			if pathTouchesExtension(stat.Name, extPath) {
				touches = true
				linesChanged += stat.Addition + stat.Deletion
			}
		}
		if touches {
			commits++
			authors[c.Author.Email] = struct{}{}
		}
		return nil
	})

	return commits, authors, linesChanged, err
}

// pathTouchesExtension reports whether a commit-relative file path is a
// substring of the extension's resolved root, or contains the root's last
// path element. It does not check that the path lies under the root, so an
// unrelated path containing that element also matches.
func pathTouchesExtension(relPath, extPath string) bool {
	return strings.Contains(filepath.ToSlash(extPath), filepath.ToSlash(relPath)) ||
		strings.Contains(filepath.ToSlash(relPath), filepath.Base(extPath))
}

// churnRiskScore nudges risk upward as recent commit and line-change
// volume rises, clamped by the caller to [1,10].
func churnRiskScore(commits, linesChanged int) float64 {
	base := 1.0 + float64(commits)*0.3 + float64(linesChanged)*0.01
	return base
}

var _ pipeline.Analyzer = (*GitHistoryAnalyzer)(nil)
