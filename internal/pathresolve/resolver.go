package pathresolve

import (
	"sort"
	"time"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// Resolver is the C2 Path Resolver: it selects the highest-priority
// strategy able to handle a request, falls through lower-priority
// strategies on failure, and runs the recovery pipeline once every
// registered strategy is exhausted.
type Resolver struct {
	strategies        []Strategy
	HostPlatformMajor int
}

// NewResolver constructs a Resolver with the four built-in strategies
// plus any extra strategies supplied by the caller (e.g. analyzer-specific
// overrides registered ahead of the defaults).
func NewResolver(hostPlatformMajor int, extra ...Strategy) *Resolver {
	r := &Resolver{HostPlatformMajor: hostPlatformMajor}
	r.strategies = append(r.strategies, extra...)
	r.strategies = append(r.strategies, defaultStrategiesFor(hostPlatformMajor)...)
	return r
}

func defaultStrategies() []Strategy {
	return defaultStrategiesFor(12)
}

func defaultStrategiesFor(hostPlatformMajor int) []Strategy {
	return []Strategy{
		&ExtensionPathStrategy{HostPlatformMajor: hostPlatformMajor},
		&VendorDirStrategy{},
		&InstalledPackagesManifestStrategy{},
		&PackageStateFileStrategy{},
	}
}

// Resolve selects candidate strategies able to handle req, orders them by
// priority (descending) with a stable tie-break on strategy name
// (ascending), and consults them in order until one returns ok. If none
// does, the recovery pipeline runs and its result is returned instead.
func (r *Resolver) Resolve(req types.PathRequest) types.PathResponse {
	start := time.Now()

	var candidates []Strategy
	for _, s := range r.strategies {
		if s.CanHandle(req) {
			candidates = append(candidates, s)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].Priority(req), candidates[j].Priority(req)
		if pi != pj {
			return pi > pj
		}
		return candidates[i].Name() < candidates[j].Name()
	})

	var lastFailure types.PathResponse
	for _, s := range candidates {
		resp := s.Resolve(req)
		if resp.Status == types.PathStatusOK {
			return resp
		}
		lastFailure = resp
	}

	recovered := runRecovery(req)
	if recovered.Status == types.PathStatusOK {
		return recovered
	}

	recovered.Warnings = append(lastFailure.Warnings, recovered.Warnings...)
	if len(recovered.SuggestedPaths) == 0 {
		recovered.SuggestedPaths = lastFailure.SuggestedPaths
	}
	recovered.Metadata = types.PathResponseMetadata{
		StrategyName:   "recovery_pipeline",
		AttemptedPaths: lastFailure.Metadata.AttemptedPaths,
		ElapsedSeconds: time.Since(start).Seconds(),
	}
	return recovered
}

// RegisterStrategy adds an additional strategy ahead of the built-ins,
// letting analyzers extend path resolution for kinds the core resolver
// does not know about.
func (r *Resolver) RegisterStrategy(s Strategy) {
	r.strategies = append([]Strategy{s}, r.strategies...)
}
