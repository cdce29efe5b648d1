// Package registry implements the Registry Clients (A3): package-registry
// HTTP lookups the version-availability analyzer consults. Every client
// error is swallowed at the analyzer boundary into available=false.
package registry

import (
	"context"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// PackageRegistryClient reports whether a package has a release
// compatible with a target host platform version.
type PackageRegistryClient interface {
	HasVersionFor(ctx context.Context, identifier string, targetVersion types.Version) (bool, error)
}
