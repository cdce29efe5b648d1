// Package discovery implements Extension Discovery (A1): enumerating the
// extensions of a host platform installation from its dependency
// manifest and/or its PackageStates.php-equivalent.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pathresolve"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// Discoverer enumerates the extensions of an installation.
type Discoverer struct {
	Resolver *pathresolve.Resolver
	Logger   *logrus.Logger
}

// NewDiscoverer constructs a Discoverer backed by the given Path Resolver.
func NewDiscoverer(resolver *pathresolve.Resolver, logger *logrus.Logger) *Discoverer {
	return &Discoverer{Resolver: resolver, Logger: logger}
}

// Discover builds an Installation by enumerating its extensions through
// a five-step algorithm. Only a missing installation root
// is fatal; every other resolution failure degrades to a warning and a
// partial result.
func (d *Discoverer) Discover(installationPath string, kind types.InstallationKind) (*types.Installation, error) {
	if info, err := os.Stat(installationPath); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("installation root does not exist: %s", installationPath)
	}

	installation := &types.Installation{RootPath: installationPath, Kind: kind}

	manifest, manifestErr := pathresolve.LoadManifest(installationPath)
	if manifestErr != nil {
		installation.Warnings = append(installation.Warnings, fmt.Sprintf("dependency manifest unavailable: %v", manifestErr))
	} else {
		installation.Manifest = manifest
	}

	byKey := map[string]types.Extension{}

	if manifest != nil {
		manifestExtensions, warnings := d.discoverFromManifest(manifest, installationPath, kind)
		installation.Warnings = append(installation.Warnings, warnings...)
		for _, ext := range manifestExtensions {
			byKey[ext.Key] = ext
		}
	}

	stateExtensions, warnings := d.discoverFromPackageStates(installationPath, kind, manifest)
	installation.Warnings = append(installation.Warnings, warnings...)
	for _, ext := range stateExtensions {
		if _, ok := byKey[ext.Key]; ok {
			continue // manifest-derived kind=third_party entry already preferred
		}
		byKey[ext.Key] = ext
	}

	for _, ext := range byKey {
		installation.Extensions = append(installation.Extensions, ext)
	}

	return installation, nil
}

// discoverFromManifest implements step 2: enumerate require entries whose
// type marks them as platform extensions, resolving each root and
// reading its own metadata.
func (d *Discoverer) discoverFromManifest(manifest *types.DependencyManifest, installationPath string, kind types.InstallationKind) ([]types.Extension, []string) {
	var extensions []types.Extension
	var warnings []string

	for pkgName := range manifest.Require {
		parts := strings.SplitN(pkgName, "/", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ReplaceAll(parts[1], "-", "_")

		ref := types.Extension{Key: key, PackageName: pkgName}
		req := types.PathRequest{
			PathKind:         types.PathKindExtension,
			InstallationKind: kind,
			InstallationPath: installationPath,
			ExtensionRef:     &ref,
			Config:           types.PathRequestConfig{ValidateExists: true},
		}

		resp := d.Resolver.Resolve(req)
		if resp.Status != types.PathStatusOK {
			warnings = append(warnings, fmt.Sprintf("could not resolve path for required package %s: %s", pkgName, strings.Join(resp.Warnings, "; ")))
			continue
		}

		extManifest, err := pathresolve.LoadManifest(resp.ResolvedPath)
		if err != nil || !strings.HasPrefix(extManifest.Type, pathresolve.PlatformPackageTypePrefix) {
			continue
		}

		meta := readExtEmConf(resp.ResolvedPath, key)
		extensions = append(extensions, types.Extension{
			Key:         key,
			DisplayName: meta.DisplayName,
			Version:     meta.Version,
			Kind:        types.ExtensionThirdParty,
			PackageName: pkgName,
		})
	}

	return extensions, warnings
}

// discoverFromPackageStates implements step 3: parse the
// PackageStates.php-equivalent and build one Extension per active entry.
func (d *Discoverer) discoverFromPackageStates(installationPath string, kind types.InstallationKind, manifest *types.DependencyManifest) ([]types.Extension, []string) {
	req := types.PathRequest{
		PathKind:         types.PathKindPackageStates,
		InstallationKind: kind,
		InstallationPath: installationPath,
		Config:           types.PathRequestConfig{ValidateExists: true},
	}

	resp := d.Resolver.Resolve(req)
	if resp.Status != types.PathStatusOK {
		return nil, []string{fmt.Sprintf("could not resolve PackageStates file: %s", strings.Join(resp.Warnings, "; "))}
	}

	entries, err := parsePackageStates(resp.ResolvedPath)
	if err != nil {
		return nil, []string{fmt.Sprintf("could not parse PackageStates file %s: %v", resp.ResolvedPath, err)}
	}

	webRoot := filepath.Dir(filepath.Dir(resp.ResolvedPath))

	var extensions []types.Extension
	var warnings []string
	for _, entry := range entries {
		if !entry.Active {
			continue
		}

		extRoot := filepath.Join(webRoot, entry.PackagePath)
		meta := readExtEmConf(extRoot, entry.Key)

		extKind := types.ExtensionLocal
		if isBundledExtension(entry.PackagePath) {
			extKind = types.ExtensionSystem
		}

		extensions = append(extensions, types.Extension{
			Key:         entry.Key,
			DisplayName: meta.DisplayName,
			Version:     meta.Version,
			Kind:        extKind,
		})
	}

	return extensions, warnings
}
