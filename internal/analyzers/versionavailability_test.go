package analyzers

import (
	"context"
	"errors"
	"testing"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

type fakeRegistryClient struct {
	found bool
	err   error
}

func (c fakeRegistryClient) HasVersionFor(ctx context.Context, identifier string, target types.Version) (bool, error) {
	return c.found, c.err
}

func TestVersionAvailabilityAnalyzer_FoundInFirstRegistry(t *testing.T) {
	a := NewVersionAvailabilityAnalyzer(nil, fakeRegistryClient{found: true})
	ext := types.Extension{Key: "news", Kind: types.ExtensionThirdParty, PackageName: "acme/news"}

	result := a.Analyze(context.Background(), ext, types.AnalysisContext{TargetVersion: types.MustParseVersion("12.0.0")})

	if !result.Successful {
		t.Fatal("expected success")
	}
	if result.Metrics["available"] != true {
		t.Fatalf("expected available=true, got %v", result.Metrics["available"])
	}
	if result.RiskScore != 1.0 {
		t.Fatalf("expected risk score 1.0, got %v", result.RiskScore)
	}
}

func TestVersionAvailabilityAnalyzer_FallsThroughOnNetworkError(t *testing.T) {
	a := NewVersionAvailabilityAnalyzer(nil, fakeRegistryClient{err: errors.New("boom")}, fakeRegistryClient{found: true})
	ext := types.Extension{Key: "news", Kind: types.ExtensionThirdParty, PackageName: "acme/news"}

	result := a.Analyze(context.Background(), ext, types.AnalysisContext{TargetVersion: types.MustParseVersion("12.0.0")})

	if !result.Successful {
		t.Fatal("a network error on one client must not fail the analysis")
	}
	if result.Metrics["available"] != true {
		t.Fatal("expected the second registry's match to be used")
	}
}

func TestVersionAvailabilityAnalyzer_NotAvailableAnywhere(t *testing.T) {
	a := NewVersionAvailabilityAnalyzer(nil, fakeRegistryClient{found: false}, fakeRegistryClient{found: false})
	ext := types.Extension{Key: "news", Kind: types.ExtensionThirdParty, PackageName: "acme/news"}

	result := a.Analyze(context.Background(), ext, types.AnalysisContext{TargetVersion: types.MustParseVersion("12.0.0")})

	if !result.Successful {
		t.Fatal("unavailability is a successful, degraded result, not a failure")
	}
	if result.Metrics["available"] != false {
		t.Fatal("expected available=false")
	}
	if len(result.Recommendations) == 0 {
		t.Fatal("expected a recommendation when no registry carries a compatible release")
	}
}

func TestVersionAvailabilityAnalyzer_Supports(t *testing.T) {
	a := NewVersionAvailabilityAnalyzer(nil)
	if a.Supports(types.Extension{Key: "core", Kind: types.ExtensionSystem}) {
		t.Fatal("system extensions are not looked up in public registries")
	}
	if !a.Supports(types.Extension{Key: "news", Kind: types.ExtensionThirdParty}) {
		t.Fatal("expected third-party extensions to be supported")
	}
}
