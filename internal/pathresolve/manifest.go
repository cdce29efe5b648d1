package pathresolve

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// manifestJSON mirrors the composer.json-equivalent dependency manifest's
// on-disk shape. Only the fields the engine consumes are modelled.
type manifestJSON struct {
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	Require map[string]string `json:"require"`
	Config  struct {
		VendorDir string `json:"vendor-dir"`
	} `json:"config"`
	Extra struct {
		HostCMS struct {
			WebDir string `json:"web-dir"`
		} `json:"host/cms"`
	} `json:"extra"`
}

// ManifestFileName is the conventional name of the dependency manifest at
// an installation's root.
const ManifestFileName = "composer.json"

// LoadManifest reads and parses the dependency manifest at the root of an
// installation. It is read directly (not through the strategy chain)
// because every supported installation kind keeps it at a fixed,
// well-known location.
func LoadManifest(installationPath string) (*types.DependencyManifest, error) {
	path := filepath.Join(installationPath, ManifestFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dependency manifest %s: %w", path, err)
	}

	var raw manifestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dependency manifest %s: %w", path, err)
	}

	vendorDir := raw.Config.VendorDir
	if vendorDir == "" {
		vendorDir = "vendor"
	}

	return &types.DependencyManifest{
		Name:      raw.Name,
		Type:      raw.Type,
		VendorDir: vendorDir,
		WebDir:    raw.Extra.HostCMS.WebDir,
		Require:   raw.Require,
	}, nil
}

// defaultWebDir returns the platform-conventional web directory name for
// an installation kind when the manifest does not override it.
func defaultWebDir(kind types.InstallationKind) string {
	switch kind {
	case types.InstallationDependencyCustom:
		return "web"
	default:
		return "public"
	}
}

// webDirFor resolves the effective web directory for a manifest + kind
// pair, applying the manifest override when present.
func webDirFor(manifest *types.DependencyManifest, kind types.InstallationKind) string {
	if manifest != nil && manifest.WebDir != "" {
		return manifest.WebDir
	}
	return defaultWebDir(kind)
}

// vendorDirFor resolves the effective vendor directory for a manifest,
// defaulting to "vendor" when absent.
func vendorDirFor(manifest *types.DependencyManifest) string {
	if manifest != nil && manifest.VendorDir != "" {
		return manifest.VendorDir
	}
	return "vendor"
}
