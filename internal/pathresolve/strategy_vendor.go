package pathresolve

import (
	"path/filepath"
	"time"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// VendorDirStrategy resolves PathKindVendorDir requests by reading
// config.vendor-dir from the dependency manifest (default "vendor").
// Absolute custom paths are used verbatim.
type VendorDirStrategy struct{}

func (s *VendorDirStrategy) Name() string { return "vendor_directory_strategy" }

func (s *VendorDirStrategy) CanHandle(req types.PathRequest) bool {
	return req.PathKind == types.PathKindVendorDir
}

func (s *VendorDirStrategy) Priority(req types.PathRequest) Priority {
	return PriorityNormal
}

func (s *VendorDirStrategy) Resolve(req types.PathRequest) types.PathResponse {
	start := time.Now()

	if custom, ok := req.Config.CustomPaths["vendor_dir"]; ok && custom != "" {
		path := custom
		if !filepath.IsAbs(path) {
			path = filepath.Join(req.InstallationPath, path)
		}
		return verifyOrSuggest(s.Name(), s.Priority(req), path, req.Config.ValidateExists, start)
	}

	manifest, _ := LoadManifest(req.InstallationPath)
	vendorDir := vendorDirFor(manifest)
	path := filepath.Join(req.InstallationPath, vendorDir)

	return verifyOrSuggest(s.Name(), s.Priority(req), path, req.Config.ValidateExists, start)
}

func verifyOrSuggest(strategyName string, priority Priority, path string, validateExists bool, start time.Time) types.PathResponse {
	if !validateExists || isDirectory(path) {
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
