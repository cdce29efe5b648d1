package discovery

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

var (
	titlePattern   = regexp.MustCompile(`(?s)'title'\s*=>\s*'([^']*)'`)
	versionPattern = regexp.MustCompile(`(?s)'version'\s*=>\s*'([^']*)'`)
)

// extMeta is the subset of ext_emconf.php fields discovery needs.
type extMeta struct {
	DisplayName string
	Version     types.Version
}

// readExtEmConf parses the ext_emconf.php-equivalent at root, tolerating
// a missing title/version by falling back to the key and version zero.
func readExtEmConf(root, key string) extMeta {
	meta := extMeta{DisplayName: key}

	data, err := os.ReadFile(filepath.Join(root, "ext_emconf.php"))
	if err != nil {
		return meta
	}

	if m := titlePattern.FindSubmatch(data); m != nil {
		meta.DisplayName = string(m[1])
	}
	if m := versionPattern.FindSubmatch(data); m != nil {
		if v, err := types.ParseVersion(string(m[1])); err == nil {
			meta.Version = v
		}
	}

	return meta
}
