package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// PathKind is the category of path being resolved.
type PathKind string

const (
	PathKindExtension         PathKind = "extension"
	PathKindVendorDir         PathKind = "vendor_dir"
	PathKindPackageStates     PathKind = "package_states"
	PathKindComposerInstalled PathKind = "composer_installed"
)

// DefaultFallbackStrategies returns the ordered list of built-in strategy
// identifiers consulted for this path kind when the caller does not
// supply its own list.
func (k PathKind) DefaultFallbackStrategies() []string {
	switch k {
	case PathKindExtension:
		return []string{"extension_path_resolution_strategy"}
	case PathKindVendorDir:
		return []string{"vendor_directory_strategy"}
	case PathKindComposerInstalled:
		return []string{"installed_packages_manifest_strategy"}
	case PathKindPackageStates:
		return []string{"package_state_file_strategy"}
	default:
		return nil
	}
}

// PathRequestConfig carries the tunable knobs of a PathRequest.
type PathRequestConfig struct {
	CustomPaths    map[string]string
	SearchDirs     []string
	ValidateExists bool
	FollowSymlinks bool
}

// PathRequest asks the resolver to turn a (PathKind, InstallationKind,
// ExtensionRef) tuple into an absolute filesystem path.
type PathRequest struct {
	PathKind           PathKind
	InstallationKind   InstallationKind
	InstallationPath   string
	ExtensionRef       *Extension
	Config             PathRequestConfig
	FallbackStrategies []string
}

// CacheKey derives a stable cache key from every field of the request.
func (r PathRequest) CacheKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pk=%s;ik=%s;ip=%s;", r.PathKind, r.InstallationKind, r.InstallationPath)

	if r.ExtensionRef != nil {
		fmt.Fprintf(&b, "ext=%s@%s;pkg=%s;", r.ExtensionRef.Key, r.ExtensionRef.Version.String(), r.ExtensionRef.PackageName)
	}

	customKeys := make([]string, 0, len(r.Config.CustomPaths))
	for k := range r.Config.CustomPaths {
		customKeys = append(customKeys, k)
	}
	sort.Strings(customKeys)
	for _, k := range customKeys {
		fmt.Fprintf(&b, "cp.%s=%s;", k, r.Config.CustomPaths[k])
	}

	searchDirs := append([]string(nil), r.Config.SearchDirs...)
	sort.Strings(searchDirs)
	fmt.Fprintf(&b, "sd=%s;ve=%v;fs=%v;", strings.Join(searchDirs, ","), r.Config.ValidateExists, r.Config.FollowSymlinks)

	strategies := append([]string(nil), r.FallbackStrategies...)
	fmt.Fprintf(&b, "strat=%s", strings.Join(strategies, ","))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// PathStatus is the outcome of a resolution attempt.
type PathStatus string

const (
	PathStatusOK       PathStatus = "ok"
	PathStatusNotFound PathStatus = "not_found"
	PathStatusError    PathStatus = "error"
)

// PathResponseMetadata carries diagnostics about how a response was
// produced.
type PathResponseMetadata struct {
	StrategyName   string
	Priority       string
	AttemptedPaths []string
	ElapsedSeconds float64
}

// PathResponse is the result of a path resolution request.
type PathResponse struct {
	Status        PathStatus
	ResolvedPath  string
	SuggestedPaths []string
	Warnings      []string
	Errors        []string
	Metadata      PathResponseMetadata
}
