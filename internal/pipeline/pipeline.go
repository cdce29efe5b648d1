package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// ExtensionResults collects every analyzer's AnalysisResult for one
// extension.
type ExtensionResults struct {
	Extension types.Extension
	Results   []types.AnalysisResult
}

// Pipeline is the C6 Analyzer Pipeline: it iterates analyzers in
// declared order for each extension, under a bounded worker pool across
// extensions, and preserves partial results on per-analyzer failure.
type Pipeline struct {
	analyzers   []Analyzer
	logger      *logrus.Logger
	maxParallel int
}

// New constructs a Pipeline. maxParallel <= 0 defaults to the number of
// CPU cores, matching the "min(cpu_cores, extensions)" default.
func New(analyzers []Analyzer, logger *logrus.Logger, maxParallel int) *Pipeline {
	if maxParallel <= 0 {
		maxParallel = runtime.NumCPU()
	}
	return &Pipeline{analyzers: analyzers, logger: logger, maxParallel: maxParallel}
}

// Run invokes every applicable analyzer against every extension. Results
// are returned in the same order as extensions; per-extension analyzer
// order always matches the pipeline's declared analyzer order,
// regardless of scheduling, so composition is deterministic.
//
// Concurrency is bounded with a stdlib buffered-channel semaphore rather
// than golang.org/x/sync/errgroup — see DESIGN.md's C6 entry for why.
func (p *Pipeline) Run(ctx context.Context, extensions []types.Extension, analysisCtx types.AnalysisContext) []ExtensionResults {
	results := make([]ExtensionResults, len(extensions))
	sem := make(chan struct{}, p.maxParallel)
	var wg sync.WaitGroup

	for i, ext := range extensions {
		i, ext := i, ext

		select {
		case <-ctx.Done():
			results[i] = ExtensionResults{Extension: ext, Results: nil}
			continue
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = ExtensionResults{
				Extension: ext,
				Results:   p.runExtension(ctx, ext, analysisCtx),
			}
		}()
	}

	wg.Wait()
	return results
}

// runExtension invokes every applicable analyzer in declared order,
// collecting each AnalysisResult. A failing analyzer produces a
// successful=false result but never halts the remaining analyzers.
func (p *Pipeline) runExtension(ctx context.Context, ext types.Extension, analysisCtx types.AnalysisContext) []types.AnalysisResult {
	var out []types.AnalysisResult

	for _, analyzer := range p.analyzers {
		if ctx.Err() != nil {
			out = append(out, types.AnalysisResult{
				AnalyzerName: analyzer.Name(),
				Extension:    ext,
				Successful:   false,
				Error:        "pipeline cancelled",
			})
			continue
		}

		if !analyzer.Supports(ext) {
			continue
		}

		if !analyzer.HasRequiredTools() {
			out = append(out, types.AnalysisResult{
				AnalyzerName: analyzer.Name(),
				Extension:    ext,
				Successful:   false,
				Error:        "required tools unavailable",
			})
			continue
		}

		result := p.invokeWithRecover(ctx, analyzer, ext, analysisCtx)
		out = append(out, result)
	}

	return out
}

// invokeWithRecover translates an unexpected panic inside an analyzer
// into a failure AnalysisResult (risk score 5.0), matching the Fatal
// error class: nothing propagates beyond the pipeline.
func (p *Pipeline) invokeWithRecover(ctx context.Context, analyzer Analyzer, ext types.Extension, analysisCtx types.AnalysisContext) (result types.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			if p.logger != nil {
				p.logger.Errorf("analyzer %s panicked on extension %s: %v", analyzer.Name(), ext.Key, r)
			}
			result = types.AnalysisResult{
				AnalyzerName: analyzer.Name(),
				Extension:    ext,
				RiskScore:    5.0,
				Successful:   false,
				Error:        "unexpected failure during analysis",
			}
		}
	}()

	return analyzer.Analyze(ctx, ext, analysisCtx)
}
