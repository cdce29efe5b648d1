package pathresolve

import (
	"path/filepath"
	"time"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// InstalledPackagesManifestStrategy resolves PathKindComposerInstalled
// requests to "{vendor_dir}/host/installed.json".
type InstalledPackagesManifestStrategy struct{}

func (s *InstalledPackagesManifestStrategy) Name() string {
	return "installed_packages_manifest_strategy"
}

func (s *InstalledPackagesManifestStrategy) CanHandle(req types.PathRequest) bool {
	return req.PathKind == types.PathKindComposerInstalled
}

func (s *InstalledPackagesManifestStrategy) Priority(req types.PathRequest) Priority {
	return PriorityNormal
}

func (s *InstalledPackagesManifestStrategy) Resolve(req types.PathRequest) types.PathResponse {
	start := time.Now()

	manifest, _ := LoadManifest(req.InstallationPath)
	vendorDir := vendorDirFor(manifest)
	path := filepath.Join(req.InstallationPath, vendorDir, "host", "installed.json")

	return verifyOrSuggestFile(s.Name(), s.Priority(req), path, req.Config.ValidateExists, start)
}

func verifyOrSuggestFile(strategyName string, priority Priority, path string, validateExists bool, start time.Time) types.PathResponse {
	if !validateExists || fileExists(path) {
		return types.PathResponse{
			Status:       types.PathStatusOK,
			ResolvedPath: path,
			Metadata: types.PathResponseMetadata{
				StrategyName:   strategyName,
				Priority:       priority.String(),
				AttemptedPaths: []string{path},
				ElapsedSeconds: time.Since(start).Seconds(),
			},
		}
	}

	return types.PathResponse{
		Status:         types.PathStatusNotFound,
		SuggestedPaths: []string{path},
		Metadata: types.PathResponseMetadata{
			StrategyName:   strategyName,
			Priority:       priority.String(),
			AttemptedPaths: []string{path},
			ElapsedSeconds: time.Since(start).Seconds(),
		},
	}
}
