package pathresolve

import (
	"path/filepath"
	"time"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// ExtensionPathStrategy resolves PathKindExtension requests across every
// supported installation kind.
type ExtensionPathStrategy struct {
	// HostPlatformMajor is the major version of the currently installed
	// host platform, used by the dependency_standard branch to decide
	// between the modern vendor layout and the legacy public/conf/ext
	// layout.
	HostPlatformMajor int
}

func (s *ExtensionPathStrategy) Name() string { return "extension_path_resolution_strategy" }

func (s *ExtensionPathStrategy) CanHandle(req types.PathRequest) bool {
	return req.PathKind == types.PathKindExtension
}

func (s *ExtensionPathStrategy) Priority(req types.PathRequest) Priority {
	switch req.InstallationKind {
	case types.InstallationDependencyStandard, types.InstallationDependencyCustom:
		return PriorityHighest
	case types.InstallationContainerized:
		return PriorityHigh
	case types.InstallationLegacySource:
		return PriorityNormal
	case types.InstallationAutoDetect:
		return PriorityNormal
	default:
		return PriorityLow
	}
}

func (s *ExtensionPathStrategy) Resolve(req types.PathRequest) types.PathResponse {
	start := time.Now()

	if req.ExtensionRef == nil {
		return errorResponse(s.Name(), "extension_ref is required for extension path resolution", start)
	}

	kind := req.InstallationKind
	if kind == types.InstallationAutoDetect {
		kind = s.detectKind(req)
	}

	var candidates []string
	switch kind {
	case types.InstallationDependencyStandard:
		candidates = s.dependencyStandardCandidates(req)
	case types.InstallationDependencyCustom:
		candidates = s.dependencyCustomCandidates(req)
	case types.InstallationLegacySource:
		candidates = s.legacySourceCandidates(req)
	case types.InstallationContainerized:
		candidates = s.containerizedCandidates(req)
	default:
		candidates = s.legacySourceCandidates(req)
	}

	key := req.ExtensionRef.Key
	var attempted []string
	for _, candidate := range candidates {
		attempted = append(attempted, candidate)
		if acceptCandidate(candidate, key, req.Config.FollowSymlinks) {
			return types.PathResponse{
				Status:       types.PathStatusOK,
				ResolvedPath: candidate,
				Metadata: types.PathResponseMetadata{
					StrategyName:   s.Name(),
					Priority:       s.Priority(req).String(),
					AttemptedPaths: attempted,
					ElapsedSeconds: time.Since(start).Seconds(),
				},
			}
		}
	}

	return types.PathResponse{
		Status:         types.PathStatusNotFound,
		SuggestedPaths: candidates,
		Metadata: types.PathResponseMetadata{
			StrategyName:   s.Name(),
			Priority:       s.Priority(req).String(),
			AttemptedPaths: attempted,
			ElapsedSeconds: time.Since(start).Seconds(),
		},
	}
}

// detectKind inspects the installation's directory structure to classify
// it: presence of "{web_dir}/conf" or "typo3_src/" distinguishes
// legacy-source layouts from dependency-managed ones.
func (s *ExtensionPathStrategy) detectKind(req types.PathRequest) types.InstallationKind {
	manifest, _ := LoadManifest(req.InstallationPath)
	webDir := webDirFor(manifest, types.InstallationDependencyStandard)

	if isDirectory(filepath.Join(req.InstallationPath, "typo3_src")) {
		return types.InstallationLegacySource
	}
	if isDirectory(filepath.Join(req.InstallationPath, webDir, "conf")) {
		return types.InstallationLegacySource
	}
	if manifest != nil {
		return types.InstallationDependencyStandard
	}
	return types.InstallationLegacySource
}

func (s *ExtensionPathStrategy) dependencyStandardCandidates(req types.PathRequest) []string {
	manifest, _ := LoadManifest(req.InstallationPath)
	vendorDir := vendorDirFor(manifest)
	key := req.ExtensionRef.Key

	var candidates []string
	if s.HostPlatformMajor >= 12 {
		if req.ExtensionRef.PackageName != "" {
			candidates = append(candidates, filepath.Join(req.InstallationPath, vendorDir, req.ExtensionRef.PackageName))
		}
		candidates = append(candidates,
			filepath.Join(req.InstallationPath, vendorDir, "host", "cms-"+key),
			filepath.Join(req.InstallationPath, vendorDir, "host", "cms-"+hyphenated(key)),
		)
		return candidates
	}

	webDir := webDirFor(manifest, types.InstallationDependencyStandard)
	return []string{filepath.Join(req.InstallationPath, webDir, "conf", "ext", key)}
}

func (s *ExtensionPathStrategy) dependencyCustomCandidates(req types.PathRequest) []string {
	manifest, _ := LoadManifest(req.InstallationPath)
	vendorDir := vendorDirFor(manifest)
	key := req.ExtensionRef.Key

	var candidates []string
	if s.HostPlatformMajor >= 12 {
		if req.ExtensionRef.PackageName != "" {
			candidates = append(candidates, filepath.Join(req.InstallationPath, vendorDir, req.ExtensionRef.PackageName))
		}
		candidates = append(candidates,
			filepath.Join(req.InstallationPath, vendorDir, "host", "cms-"+key),
			filepath.Join(req.InstallationPath, vendorDir, "host", "cms-"+hyphenated(key)),
		)
		return candidates
	}

	webDir := webDirFor(manifest, types.InstallationDependencyCustom)
	return []string{filepath.Join(req.InstallationPath, webDir, "conf", "ext", key)}
}

func (s *ExtensionPathStrategy) legacySourceCandidates(req types.PathRequest) []string {
	key := req.ExtensionRef.Key
	candidates := []string{filepath.Join(req.InstallationPath, "conf", "ext", key)}

	if typo3confDir, ok := req.Config.CustomPaths["typo3conf-dir"]; ok && typo3confDir != "" {
		candidates = append(candidates, filepath.Join(req.InstallationPath, typo3confDir, "ext", key))
	}
	return candidates
}

func (s *ExtensionPathStrategy) containerizedCandidates(req types.PathRequest) []string {
	manifest, _ := LoadManifest(req.InstallationPath)
	webDir := webDirFor(manifest, types.InstallationDependencyStandard)
	key := req.ExtensionRef.Key

	candidates := []string{filepath.Join(req.InstallationPath, "app", webDir, "conf", "ext", key)}
	candidates = append(candidates, s.dependencyStandardCandidates(req)...)
	return candidates
}

func errorResponse(strategyName, message string, start time.Time) types.PathResponse {
	return types.PathResponse{
		Status: types.PathStatusError,
		Errors: []string{message},
		Metadata: types.PathResponseMetadata{
			StrategyName:   strategyName,
			ElapsedSeconds: time.Since(start).Seconds(),
		},
	}
}
