package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/discovery"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pathresolve"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pipeline"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

type stubAnalyzer struct {
	name     string
	findings []types.Finding
}

func (s stubAnalyzer) Name() string            { return s.name }
func (s stubAnalyzer) Description() string     { return "stub" }
func (s stubAnalyzer) Supports(types.Extension) bool { return true }
func (s stubAnalyzer) RequiredTools() []string  { return nil }
func (s stubAnalyzer) HasRequiredTools() bool   { return true }
func (s stubAnalyzer) Analyze(ctx context.Context, ext types.Extension, analysisCtx types.AnalysisContext) types.AnalysisResult {
	return types.AnalysisResult{
		AnalyzerName: s.name,
		Extension:    ext,
		Successful:   true,
		Metrics:      map[string]interface{}{"findings": s.findings},
	}
}

func TestEngine_Run_AggregatesAcrossExtensions(t *testing.T) {
	root := t.TempDir()
	extDir := filepath.Join(root, "vendor", "acme", "news")
	if err := os.MkdirAll(extDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "composer.json"), []byte(`{"require":{"acme/news":"^1.0"}}`), 0o644); err != nil {
		t.Fatalf("write composer.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(extDir, "ext_emconf.php"), []byte("<?php\n$EM_CONF[$_EXTKEY] = [\n    'title' => 'News',\n    'version' => '1.0.0',\n];\n"), 0o644); err != nil {
		t.Fatalf("write ext_emconf: %v", err)
	}
	if err := os.WriteFile(filepath.Join(extDir, "composer.json"), []byte(`{"name":"acme/news","type":"typo3-cms-extension"}`), 0o644); err != nil {
		t.Fatalf("write extension composer.json: %v", err)
	}

	finding := types.NewFinding("Classes/Foo.php", 1, "Typo3_RemovedMethodRector", "msg", types.SeverityWarning, types.ChangeClassRemoval)
	analyzer := stubAnalyzer{name: "stub", findings: []types.Finding{finding}}

	resolver := pathresolve.NewResolver(12)
	discoverer := discovery.NewDiscoverer(resolver, nil)
	pl := pipeline.New([]pipeline.Analyzer{analyzer}, nil, 1)
	engine := NewEngine(discoverer, pl, types.ResultCacheConfig{}, nil)

	run, err := engine.Run(context.Background(), RunRequest{
		InstallationPath: root,
		InstallationKind: types.InstallationDependencyStandard,
		CurrentVersion:   types.MustParseVersion("11.5.0"),
		TargetVersion:    types.MustParseVersion("12.4.0"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(run.Extensions) != 1 {
		t.Fatalf("expected 1 discovered extension, got %d", len(run.Extensions))
	}
	if run.Summary.Total != 1 {
		t.Fatalf("expected 1 aggregated finding, got %d", run.Summary.Total)
	}
	if run.ID == "" {
		t.Fatal("expected a generated run ID")
	}
}

func TestEngine_Run_DiscoveryFailurePropagates(t *testing.T) {
	resolver := pathresolve.NewResolver(12)
	discoverer := discovery.NewDiscoverer(resolver, nil)
	pl := pipeline.New(nil, nil, 1)
	engine := NewEngine(discoverer, pl, types.ResultCacheConfig{}, nil)

	_, err := engine.Run(context.Background(), RunRequest{
		InstallationPath: filepath.Join(t.TempDir(), "does-not-exist"),
		InstallationKind: types.InstallationDependencyStandard,
		CurrentVersion:   types.MustParseVersion("11.5.0"),
		TargetVersion:    types.MustParseVersion("12.4.0"),
	})
	if err == nil {
		t.Fatal("expected an error for a missing installation root")
	}
}
