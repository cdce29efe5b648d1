package analyzers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pathresolve"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

func TestLinesOfCodeAnalyzer_CountsPHPFilesOnly(t *testing.T) {
	root := t.TempDir()
	extDir := filepath.Join(root, "vendor", "acme", "news")
	if err := os.MkdirAll(extDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "composer.json"), []byte(`{"require":{"acme/news":"^1.0"}}`), 0o644); err != nil {
		t.Fatalf("write composer.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(extDir, "composer.json"), []byte(`{"name":"acme/news","type":"typo3-cms-extension"}`), 0o644); err != nil {
		t.Fatalf("write extension composer.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(extDir, "Controller.php"), []byte("<?php\nline2\nline3\n"), 0o644); err != nil {
		t.Fatalf("write php: %v", err)
	}
	if err := os.WriteFile(filepath.Join(extDir, "README.md"), []byte("# ignored\nmore\nmore\nmore\n"), 0o644); err != nil {
		t.Fatalf("write md: %v", err)
	}

	resolver := pathresolve.NewResolver(12)
	a := NewLinesOfCodeAnalyzer(resolver, nil)

	ext := types.Extension{Key: "news", PackageName: "acme/news", Kind: types.ExtensionThirdParty}
	result := a.Analyze(context.Background(), ext, types.AnalysisContext{InstallationPath: root})

	if !result.Successful {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if result.Metrics["source_files"] != 1 {
		t.Fatalf("expected exactly one source file counted, got %v", result.Metrics["source_files"])
	}
	if result.Metrics["lines_of_code"] != 3 {
		t.Fatalf("expected 3 lines of code, got %v", result.Metrics["lines_of_code"])
	}
}

func TestLinesOfCodeAnalyzer_UnresolvableRootFails(t *testing.T) {
	resolver := pathresolve.NewResolver(12)
	a := NewLinesOfCodeAnalyzer(resolver, nil)

	ext := types.Extension{Key: "missing", PackageName: "acme/missing", Kind: types.ExtensionThirdParty}
	result := a.Analyze(context.Background(), ext, types.AnalysisContext{InstallationPath: t.TempDir()})

	if result.Successful {
		t.Fatal("expected failure when the extension root cannot be resolved")
	}
}

func TestLocRiskScore_ScalesWithSize(t *testing.T) {
	cases := []struct {
		lines int
		want  float64
	}{
		{100, 2.0},
		{1000, 4.0},
		{3000, 6.0},
		{10000, 8.0},
	}
	for _, c := range cases {
		if got := locRiskScore(c.lines); got != c.want {
			t.Errorf("locRiskScore(%d) = %v, want %v", c.lines, got, c.want)
		}
	}
}
