package pathresolve

import (
	"os"
	"path/filepath"
	"strings"
)

// PlatformPackageTypePrefix is the composer package "type" prefix used by
// the host platform's own extensions (e.g. "typo3-cms-framework").
const PlatformPackageTypePrefix = "typo3-cms-"

// isDirectory reports whether path exists and is a directory.
func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// isSymlink reports whether path is itself a symlink (not resolved).
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// acceptCandidate applies the universal acceptance rule for any candidate
// extension directory: must exist as a directory, must not be a symlink
// when symlinks are disallowed, and must look like an extension.
func acceptCandidate(path, key string, followSymlinks bool) bool {
	if !isDirectory(path) {
		return false
	}
	if !followSymlinks && isSymlink(path) {
		return false
	}
	return isValidExtensionDir(path, key)
}

// isValidExtensionDir reports whether dir looks like an extension root
// for the given key: it contains ext_emconf.php, or a dependency manifest
// whose name includes key or whose type starts with the platform prefix,
// or a Classes/ or Resources/ subdirectory.
func isValidExtensionDir(dir, key string) bool {
	return platformIndicatorCount(dir, key) >= 1
}

// platformIndicatorCount counts how many of the three independent
// host-platform extension signals dir exhibits: an ext_emconf.php
// manifest, a dependency manifest naming key or carrying the platform's
// package-type prefix, and a Classes/ or Resources/ subdirectory.
// Candidates discovered by unvalidated search (e.g. customPathSearch)
// should require at least two before being trusted.
func platformIndicatorCount(dir, key string) int {
	count := 0

	if fileExists(filepath.Join(dir, "ext_emconf.php")) {
		count++
	}

	if manifest, err := LoadManifest(dir); err == nil {
		nameMatches := key != "" && strings.Contains(manifest.Name, key)
		if nameMatches || strings.HasPrefix(manifest.Type, PlatformPackageTypePrefix) {
			count++
		}
	}

	if isDirectory(filepath.Join(dir, "Classes")) || isDirectory(filepath.Join(dir, "Resources")) {
		count++
	}

	return count
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// hyphenated converts an underscore-separated extension key into its
// hyphenated package-name form (e.g. "news_letter" -> "news-letter"),
// used by the dependency_standard strategy's second candidate path.
func hyphenated(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
