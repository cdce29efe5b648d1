package discovery

import (
	"os"
	"regexp"
	"strings"
)

// packageStateEntry is one decoded entry of a PackageStates.php-equivalent
// serialized map.
type packageStateEntry struct {
	Key         string
	Active      bool
	PackagePath string
}

var packageStateBlockPattern = regexp.MustCompile(
	`(?s)'([A-Za-z0-9_]+)'\s*=>\s*array\s*\(\s*'state'\s*=>\s*'(active|inactive)'\s*,\s*'packagePath'\s*=>\s*'([^']*)'`,
)

// bundledExtensionsDirMarker is the path fragment that identifies an
// extension shipped with the host platform itself rather than installed
// locally, used to classify package-state-derived extensions as
// system vs local  step 3.
const bundledExtensionsDirMarker = "sysext/"

// parsePackageStates extracts the active/inactive package entries from a
// PackageStates.php-equivalent file's raw contents.
func parsePackageStates(path string) ([]packageStateEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []packageStateEntry
	for _, m := range packageStateBlockPattern.FindAllStringSubmatch(string(data), -1) {
		entries = append(entries, packageStateEntry{
			Key:         m[1],
			Active:      m[2] == "active",
			PackagePath: m[3],
		})
	}
	return entries, nil
}

// isBundledExtension reports whether a package-state entry's path marks
// it as part of the host platform's own bundled-extensions directory.
func isBundledExtension(packagePath string) bool {
	return strings.Contains(packagePath, bundledExtensionsDirMarker)
}
