package pathresolve

import (
	"path/filepath"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// recoveryStep is one stage of the recovery pipeline run after every
// registered strategy has failed to resolve a request.
type recoveryStep func(req types.PathRequest) types.PathResponse

// recoverySteps returns the five-step recovery pipeline in the fixed order
// it must be consulted.
func recoverySteps() []recoveryStep {
	return []recoveryStep{
		alternativePathSearch,
		fallbackToDefaultPaths,
		configurationUpdateSuggestion,
		installationTypeDetection,
		customPathSearch,
	}
}

// deploymentRoots are the common hosting/container roots probed by the
// widened search once every installation kind has failed against the
// declared installation path.
var deploymentRoots = []string{
	"/app",
	"/var/www/html",
	"/usr/share/nginx/html",
	"/htdocs",
	"/public_html",
}

// alternativePathSearch tries every other installation kind's candidate
// layout against the same extension, in case the declared installation
// kind is simply wrong, then widens the search by joining the extension
// candidate against each of deploymentRoots, in case the extensions
// actually live under a standard hosting/container root rather than the
// declared installation path.
func alternativePathSearch(req types.PathRequest) types.PathResponse {
	if req.PathKind != types.PathKindExtension || req.ExtensionRef == nil {
		return types.PathResponse{Status: types.PathStatusNotFound}
	}

	strategy := &ExtensionPathStrategy{HostPlatformMajor: 12}
	kinds := []types.InstallationKind{
		types.InstallationDependencyStandard,
		types.InstallationDependencyCustom,
		types.InstallationLegacySource,
		types.InstallationContainerized,
	}

	var suggestions []string
	for _, kind := range kinds {
		if kind == req.InstallationKind {
			continue
		}
		altReq := req
		altReq.InstallationKind = kind
		resp := strategy.Resolve(altReq)
		if resp.Status == types.PathStatusOK {
			resp.Warnings = append(resp.Warnings, "resolved under installation kind "+string(kind)+" rather than the declared kind")
			return resp
		}
		suggestions = append(suggestions, resp.SuggestedPaths...)
	}

	for _, root := range deploymentRoots {
		if root == req.InstallationPath {
			continue
		}
		rootReq := req
		rootReq.InstallationPath = root
		resp := strategy.Resolve(rootReq)
		if resp.Status == types.PathStatusOK {
			resp.Warnings = append(resp.Warnings, "resolved under deployment root "+root+" rather than the declared installation path")
			return resp
		}
		suggestions = append(suggestions, resp.SuggestedPaths...)
	}

	return types.PathResponse{Status: types.PathStatusNotFound, SuggestedPaths: suggestions}
}

// fallbackToDefaultPaths retries the request's own path kind against the
// built-in defaults, ignoring any configured custom paths that may have
// been what caused the original failure.
func fallbackToDefaultPaths(req types.PathRequest) types.PathResponse {
	stripped := req
	stripped.Config.CustomPaths = nil

	for _, strategy := range defaultStrategies() {
		if strategy.CanHandle(stripped) {
			resp := strategy.Resolve(stripped)
			if resp.Status == types.PathStatusOK {
				resp.Warnings = append(resp.Warnings, "resolved using default paths; configured custom paths were ignored")
				return resp
			}
		}
	}

	return types.PathResponse{Status: types.PathStatusNotFound}
}

// configurationUpdateSuggestion never resolves a path itself; it reports
// what configuration the caller should add to succeed next time.
func configurationUpdateSuggestion(req types.PathRequest) types.PathResponse {
	var suggestedKey string
	switch req.PathKind {
	case types.PathKindExtension:
		suggestedKey = "typo3conf-dir"
	case types.PathKindVendorDir:
		suggestedKey = "vendor_dir"
	default:
		suggestedKey = "custom path override"
	}

	return types.PathResponse{
		Status: types.PathStatusNotFound,
		Warnings: []string{
			"consider adding a custom path override for '" + suggestedKey + "' in the installation configuration",
		},
	}
}

// installationTypeDetection re-runs auto-detection against the raw
// filesystem in case the declared installation kind was wrong, reporting
// the detected kind as a suggestion rather than resolving the path.
func installationTypeDetection(req types.PathRequest) types.PathResponse {
	strategy := &ExtensionPathStrategy{HostPlatformMajor: 12}
	detected := strategy.detectKind(types.PathRequest{
		InstallationPath: req.InstallationPath,
		InstallationKind: types.InstallationAutoDetect,
	})

	if detected == req.InstallationKind {
		return types.PathResponse{Status: types.PathStatusNotFound}
	}

	return types.PathResponse{
		Status: types.PathStatusNotFound,
		Warnings: []string{
			"detected installation kind '" + string(detected) + "' differs from the declared kind '" + string(req.InstallationKind) + "'",
		},
	}
}

// minCustomSearchIndicators is the number of independent platform
// indicators (see platformIndicatorCount) a customPathSearch candidate
// must exhibit before it is trusted enough to suggest; merely existing
// is not enough for an unvalidated free-form directory.
const minCustomSearchIndicators = 2

// customPathSearch walks the configured search directories looking for a
// directory matching the request. Per the decided Open Question, this
// step never returns ok: it only ever reports suggestions, since an
// unvalidated free-form search is too unreliable to promote to a
// confirmed resolution. A candidate is only suggested once it exhibits
// at least minCustomSearchIndicators platform indicators.
func customPathSearch(req types.PathRequest) types.PathResponse {
	if len(req.Config.SearchDirs) == 0 {
		return types.PathResponse{Status: types.PathStatusNotFound}
	}

	var key string
	if req.ExtensionRef != nil {
		key = req.ExtensionRef.Key
	}

	var suggestions []string
	for _, dir := range req.Config.SearchDirs {
		candidate := dir
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(req.InstallationPath, candidate)
		}
		if req.ExtensionRef != nil {
			candidate = filepath.Join(candidate, key)
		}
		if !isDirectory(candidate) {
			continue
		}
		if platformIndicatorCount(candidate, key) >= minCustomSearchIndicators {
			suggestions = append(suggestions, candidate)
		}
	}

	return types.PathResponse{Status: types.PathStatusNotFound, SuggestedPaths: suggestions}
}

// runRecovery executes every recovery step in order, returning the first
// one that resolves the path. If none does, it returns a not_found
// response carrying the suggestions and warnings of every step.
func runRecovery(req types.PathRequest) types.PathResponse {
	var last types.PathResponse
	for _, step := range recoverySteps() {
		resp := step(req)
		if resp.Status == types.PathStatusOK {
			return resp
		}
		last.SuggestedPaths = append(last.SuggestedPaths, resp.SuggestedPaths...)
		last.Warnings = append(last.Warnings, resp.Warnings...)
	}
	last.Status = types.PathStatusNotFound
	return last
}
