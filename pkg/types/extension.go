package types

// ExtensionKind classifies how an extension came to be installed.
type ExtensionKind string

const (
	ExtensionSystem     ExtensionKind = "system"
	ExtensionLocal      ExtensionKind = "local"
	ExtensionThirdParty ExtensionKind = "third_party"
)

// Extension is a unit of installable functionality. Immutable once
// created; identity is Key.
type Extension struct {
	Key         string
	DisplayName string
	Version     Version
	Kind        ExtensionKind
	PackageName string // empty unless dependency-manager-installed
}

// InstallationKind describes the deployment layout of a host platform
// installation.
type InstallationKind string

const (
	InstallationDependencyStandard InstallationKind = "dependency_standard"
	InstallationDependencyCustom   InstallationKind = "dependency_custom"
	InstallationLegacySource       InstallationKind = "legacy_source"
	InstallationContainerized      InstallationKind = "containerized"
	InstallationCustom             InstallationKind = "custom"
	InstallationAutoDetect         InstallationKind = "auto_detect"
)

// DependencyManifest is the parsed composer.json-equivalent dependency
// manifest of an installation or extension.
type DependencyManifest struct {
	Name      string
	Type      string
	VendorDir string            // "config.vendor-dir", defaults to "vendor"
	WebDir    string            // "extra.host/cms.web-dir", defaults depend on installation kind
	Require   map[string]string // package name -> version constraint
}

// Installation owns the extensions discovered within it (composition).
type Installation struct {
	RootPath   string
	Kind       InstallationKind
	Manifest   *DependencyManifest
	Extensions []Extension
	Warnings   []string
}

// ExtensionByKey looks up a discovered extension by its identity key.
func (i *Installation) ExtensionByKey(key string) (Extension, bool) {
	for _, ext := range i.Extensions {
		if ext.Key == key {
			return ext, true
		}
	}
	return Extension{}, false
}
