package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pathresolve"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscover_DependencyStandardFindsRequiredExtension(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "composer.json"), `{
		"name": "acme/site",
		"require": {"acme/news": "^1.0"}
	}`)
	writeFile(t, filepath.Join(root, "vendor", "acme", "news", "composer.json"), `{
		"name": "acme/news",
		"type": "typo3-cms-extension"
	}`)
	writeFile(t, filepath.Join(root, "vendor", "acme", "news", "ext_emconf.php"), `<?php
$EM_CONF[$_EXTKEY] = array(
	'title' => 'News',
	'version' => '3.2.1',
);`)

	resolver := pathresolve.NewResolver(12)
	d := NewDiscoverer(resolver, nil)

	installation, err := d.Discover(root, types.InstallationDependencyStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ext, ok := installation.ExtensionByKey("news")
	if !ok {
		t.Fatalf("expected to discover extension 'news', got %+v", installation.Extensions)
	}
	if ext.Kind != types.ExtensionThirdParty {
		t.Fatalf("expected kind third_party, got %s", ext.Kind)
	}
	if ext.DisplayName != "News" || ext.Version.String() != "3.2.1" {
		t.Fatalf("unexpected metadata: %+v", ext)
	}
}

func TestDiscover_MissingInstallationRootIsFatal(t *testing.T) {
	resolver := pathresolve.NewResolver(12)
	d := NewDiscoverer(resolver, nil)

	_, err := d.Discover(filepath.Join(t.TempDir(), "does-not-exist"), types.InstallationDependencyStandard)
	if err == nil {
		t.Fatal("expected an error for a missing installation root")
	}
}

func TestDiscover_LegacySourceFromPackageStates(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "public", "conf", "PackageStates.php"), `<?php
return array (
	'packages' => array (
		'core' => array (
			'state' => 'active',
			'packagePath' => 'typo3/sysext/core/',
		),
		'my_local_ext' => array (
			'state' => 'active',
			'packagePath' => 'typo3conf/ext/my_local_ext/',
		),
		'disabled_ext' => array (
			'state' => 'inactive',
			'packagePath' => 'typo3conf/ext/disabled_ext/',
		),
	),
	'version' => 5,
);`)
	writeFile(t, filepath.Join(root, "public", "typo3", "sysext", "core", "ext_emconf.php"), `<?php
$EM_CONF[$_EXTKEY] = array(
	'title' => 'Core',
	'version' => '12.4.0',
);`)

	resolver := pathresolve.NewResolver(12)
	d := NewDiscoverer(resolver, nil)

	installation, err := d.Discover(root, types.InstallationLegacySource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	core, ok := installation.ExtensionByKey("core")
	if !ok {
		t.Fatalf("expected to discover 'core', got %+v", installation.Extensions)
	}
	if core.Kind != types.ExtensionSystem {
		t.Fatalf("expected kind system for bundled extension, got %s", core.Kind)
	}

	local, ok := installation.ExtensionByKey("my_local_ext")
	if !ok {
		t.Fatalf("expected to discover 'my_local_ext', got %+v", installation.Extensions)
	}
	if local.Kind != types.ExtensionLocal {
		t.Fatalf("expected kind local, got %s", local.Kind)
	}

	if _, ok := installation.ExtensionByKey("disabled_ext"); ok {
		t.Fatal("expected inactive package to be excluded")
	}
}
