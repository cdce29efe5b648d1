package pipeline

import (
	"context"
	"testing"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/cache"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

type fakeAnalyzer struct {
	name       string
	supports   bool
	hasTools   bool
	panics     bool
	calls      int
	resultFunc func(ext types.Extension) types.AnalysisResult
}

func (f *fakeAnalyzer) Name() string                      { return f.name }
func (f *fakeAnalyzer) Description() string               { return "fake" }
func (f *fakeAnalyzer) Supports(ext types.Extension) bool { return f.supports }
func (f *fakeAnalyzer) RequiredTools() []string           { return nil }
func (f *fakeAnalyzer) HasRequiredTools() bool            { return f.hasTools }

func (f *fakeAnalyzer) Analyze(ctx context.Context, ext types.Extension, analysisCtx types.AnalysisContext) types.AnalysisResult {
	f.calls++
	if f.panics {
		panic("boom")
	}
	if f.resultFunc != nil {
		return f.resultFunc(ext)
	}
	return types.AnalysisResult{AnalyzerName: f.name, Extension: ext, Successful: true, RiskScore: 2.0}
}

func TestPipeline_RunsApplicableAnalyzersInOrder(t *testing.T) {
	a1 := &fakeAnalyzer{name: "a1", supports: true, hasTools: true}
	a2 := &fakeAnalyzer{name: "a2", supports: true, hasTools: true}

	p := New([]Analyzer{a1, a2}, nil, 2)
	results := p.Run(context.Background(), []types.Extension{{Key: "news"}}, types.AnalysisContext{})

	if len(results) != 1 {
		t.Fatalf("expected 1 extension result, got %d", len(results))
	}
	got := results[0].Results
	if len(got) != 2 {
		t.Fatalf("expected 2 analyzer results, got %d", len(got))
	}
	if got[0].AnalyzerName != "a1" || got[1].AnalyzerName != "a2" {
		t.Errorf("expected declared order a1,a2; got %s,%s", got[0].AnalyzerName, got[1].AnalyzerName)
	}
}

func TestPipeline_SkipsUnsupportedAnalyzer(t *testing.T) {
	a1 := &fakeAnalyzer{name: "a1", supports: false, hasTools: true}

	p := New([]Analyzer{a1}, nil, 1)
	results := p.Run(context.Background(), []types.Extension{{Key: "news"}}, types.AnalysisContext{})

	if len(results[0].Results) != 0 {
		t.Errorf("expected unsupported analyzer to be skipped entirely, got %d results", len(results[0].Results))
	}
	if a1.calls != 0 {
		t.Errorf("expected Analyze to never be called for an unsupported analyzer")
	}
}

func TestPipeline_MissingToolsProducesFailureWithoutHalting(t *testing.T) {
	a1 := &fakeAnalyzer{name: "a1", supports: true, hasTools: false}
	a2 := &fakeAnalyzer{name: "a2", supports: true, hasTools: true}

	p := New([]Analyzer{a1, a2}, nil, 1)
	results := p.Run(context.Background(), []types.Extension{{Key: "news"}}, types.AnalysisContext{})

	got := results[0].Results
	if len(got) != 2 {
		t.Fatalf("expected both analyzers to produce a result, got %d", len(got))
	}
	if got[0].Successful {
		t.Errorf("expected a1 to fail when required tools are missing")
	}
	if !got[1].Successful {
		t.Errorf("expected a2 to still run after a1's failure")
	}
}

func TestPipeline_PanicRecoversToFailureResult(t *testing.T) {
	a1 := &fakeAnalyzer{name: "a1", supports: true, hasTools: true, panics: true}

	p := New([]Analyzer{a1}, nil, 1)
	results := p.Run(context.Background(), []types.Extension{{Key: "news"}}, types.AnalysisContext{})

	got := results[0].Results[0]
	if got.Successful {
		t.Errorf("expected panic to translate into a failure result")
	}
	if got.RiskScore != 5.0 {
		t.Errorf("expected Fatal-class risk score 5.0, got %v", got.RiskScore)
	}
}

func TestPipeline_PreservesExtensionOrderAcrossConcurrency(t *testing.T) {
	a1 := &fakeAnalyzer{name: "a1", supports: true, hasTools: true}

	exts := []types.Extension{{Key: "a"}, {Key: "b"}, {Key: "c"}, {Key: "d"}}
	p := New([]Analyzer{a1}, nil, 2)
	results := p.Run(context.Background(), exts, types.AnalysisContext{})

	for i, ext := range exts {
		if results[i].Extension.Key != ext.Key {
			t.Errorf("results[%d].Extension.Key = %q, want %q", i, results[i].Extension.Key, ext.Key)
		}
	}
}

func TestCachedAnalyzer_CachesOnlySuccessfulResults(t *testing.T) {
	mem := cache.NewMemoryCache()
	fails := 0
	inner := &fakeAnalyzer{
		name:     "probe",
		supports: true,
		hasTools: true,
		resultFunc: func(ext types.Extension) types.AnalysisResult {
			fails++
			return types.AnalysisResult{AnalyzerName: "probe", Extension: ext, Successful: false, Error: "boom"}
		},
	}

	cached := NewCachedAnalyzer(inner, mem, nil)
	analysisCtx := types.AnalysisContext{ResultCache: types.ResultCacheConfig{Enabled: true, TTLSeconds: 60}}
	ext := types.Extension{Key: "news"}

	cached.Analyze(context.Background(), ext, analysisCtx)
	cached.Analyze(context.Background(), ext, analysisCtx)

	if fails != 2 {
		t.Errorf("expected the failing result to never be cached, inner called %d times, want 2", fails)
	}
}

func TestCachedAnalyzer_CachesSuccessfulResultAndSkipsSecondCall(t *testing.T) {
	mem := cache.NewMemoryCache()
	calls := 0
	inner := &fakeAnalyzer{
		name:     "probe",
		supports: true,
		hasTools: true,
		resultFunc: func(ext types.Extension) types.AnalysisResult {
			calls++
			return types.AnalysisResult{AnalyzerName: "probe", Extension: ext, Successful: true, RiskScore: 3.0}
		},
	}

	cached := NewCachedAnalyzer(inner, mem, nil)
	analysisCtx := types.AnalysisContext{ResultCache: types.ResultCacheConfig{Enabled: true, TTLSeconds: 60}}
	ext := types.Extension{Key: "news"}

	r1 := cached.Analyze(context.Background(), ext, analysisCtx)
	r2 := cached.Analyze(context.Background(), ext, analysisCtx)

	if calls != 1 {
		t.Errorf("expected inner analyzer to run once, ran %d times", calls)
	}
	if r1.RiskScore != r2.RiskScore {
		t.Errorf("expected cached result to match original, got %v vs %v", r1.RiskScore, r2.RiskScore)
	}
}
