package pathresolve

import (
	"path/filepath"
	"time"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// PackageStateFileStrategy resolves PathKindPackageStates requests to
// "{web_dir}/conf/PackageStates.php", falling back to the legacy
// "{installation}/conf/PackageStates.php" location.
type PackageStateFileStrategy struct{}

func (s *PackageStateFileStrategy) Name() string { return "package_state_file_strategy" }

func (s *PackageStateFileStrategy) CanHandle(req types.PathRequest) bool {
	return req.PathKind == types.PathKindPackageStates
}

func (s *PackageStateFileStrategy) Priority(req types.PathRequest) Priority {
	return PriorityNormal
}

func (s *PackageStateFileStrategy) Resolve(req types.PathRequest) types.PathResponse {
	start := time.Now()

	manifest, _ := LoadManifest(req.InstallationPath)
	webDir := webDirFor(manifest, req.InstallationKind)

	candidates := []string{
		filepath.Join(req.InstallationPath, webDir, "conf", "PackageStates.php"),
		filepath.Join(req.InstallationPath, "conf", "PackageStates.php"),
	}

	var attempted []string
	for _, candidate := range candidates {
		attempted = append(attempted, candidate)
		if !req.Config.ValidateExists || fileExists(candidate) {
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
