package analyzers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pathresolve"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

func initRepoWithCommits(t *testing.T, dir string, n int, when time.Time) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	extDir := filepath.Join(dir, "packages", "news")
	if err := os.MkdirAll(extDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for i := 0; i < n; i++ {
		path := filepath.Join(extDir, "Controller.php")
		if err := os.WriteFile(path, []byte(fmt.Sprintf("<?php // rev %d\n", i)), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
		if _, err := wt.Add("packages/news/Controller.php"); err != nil {
			t.Fatalf("add: %v", err)
		}
		_, err := wt.Commit(fmt.Sprintf("change %d", i), &git.CommitOptions{
			Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: when},
		})
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
	}
}

func TestGitHistoryAnalyzer_NoRepoIsDegradedNotFatal(t *testing.T) {
	dir := t.TempDir()
	resolver := pathresolve.NewResolver(12)
	a := NewGitHistoryAnalyzer(resolver, nil)

	ext := types.Extension{Key: "news"}
	result := a.Analyze(context.Background(), ext, types.AnalysisContext{InstallationPath: dir})

	if !result.Successful {
		t.Fatal("expected a missing repository to be a successful degraded result, not a failure")
	}
	if result.Metrics["git_available"] != false {
		t.Fatalf("expected git_available=false, got %v", result.Metrics["git_available"])
	}
	if result.RiskScore != 1.0 {
		t.Fatalf("expected risk score 1.0 for no history, got %v", result.RiskScore)
	}
}

func TestGitHistoryAnalyzer_RecentCommitsRaiseRisk(t *testing.T) {
	dir := t.TempDir()
	initRepoWithCommits(t, dir, 5, time.Now())

	resolver := pathresolve.NewResolver(12)
	a := NewGitHistoryAnalyzer(resolver, nil)

	ext := types.Extension{Key: "news"}
	result := a.Analyze(context.Background(), ext, types.AnalysisContext{InstallationPath: dir})

	if !result.Successful {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if result.Metrics["git_available"] != true {
		t.Fatalf("expected git_available=true, got %v", result.Metrics["git_available"])
	}
	if result.RiskScore <= 1.0 {
		t.Fatalf("expected elevated risk score for recent commits, got %v", result.RiskScore)
	}
}

func TestGitHistoryAnalyzer_OldCommitsOutsideWindowAreExcluded(t *testing.T) {
	dir := t.TempDir()
	initRepoWithCommits(t, dir, 3, time.Now().Add(-365*24*time.Hour))

	resolver := pathresolve.NewResolver(12)
	a := NewGitHistoryAnalyzer(resolver, nil)

	ext := types.Extension{Key: "news"}
	result := a.Analyze(context.Background(), ext, types.AnalysisContext{InstallationPath: dir})

	if result.Metrics["commits_last_90d"] != 0 {
		t.Fatalf("expected commits outside the 90-day window to be excluded, got %v", result.Metrics["commits_last_90d"])
	}
	if result.RiskScore != 1.0 {
		t.Fatalf("expected baseline risk score when no recent commits, got %v", result.RiskScore)
	}
}

func TestGitHistoryAnalyzer_ChurnRiskScoreIsClamped(t *testing.T) {
	score := types.ClampRiskScore(churnRiskScore(1000, 100000))
	if score != 10.0 {
		t.Fatalf("expected clamped score of 10.0, got %v", score)
	}
}
