package refactor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// ToolConfig is the configuration generated for the external refactoring
// binary.
type ToolConfig struct {
	Paths           []string
	Sets            []string
	LanguageVersion string
	Parallel        bool
	CacheDirectory  string
	SkipPatterns    []string
	MemoryLimitMB   int
}

// baseSkipPatterns are always present.
var baseSkipPatterns = []string{
	"*/vendor/*",
	"*/node_modules/*",
	"*/public/*",
	"*/.Build/*",
	"*/Documentation/*",
	"*/doc/*",
	"*/Configuration/TCA/Overrides/*",
}

// LanguageVersionFor derives the target language runtime version from
// the upgrade target version.
func LanguageVersionFor(target types.Version) string {
	switch {
	case target.Major >= 13:
		return "8.2"
	case target.Major >= 12:
		return "8.1"
	default:
		return "8.0"
	}
}

// isTestFixture reports whether an extension's key marks it as a test
// fixture, exempting it from the */Tests/* skip pattern.
func isTestFixture(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "test") || strings.Contains(lower, "fixture")
}

// skipPatternsFor builds the full skip pattern list for one extension.
func skipPatternsFor(ext types.Extension) []string {
	patterns := append([]string(nil), baseSkipPatterns...)

	if !isTestFixture(ext.Key) {
		patterns = append(patterns, "*/Tests/*")
	}
	if ext.Kind == types.ExtensionSystem {
		patterns = append(patterns, "*/Migrations/*")
	}

	return patterns
}

// BuildConfig assembles a ToolConfig for one extension analysis run.
func BuildConfig(ext types.Extension, path string, sets []string, target types.Version, cacheDir string, memoryLimitMB int) ToolConfig {
	return ToolConfig{
		Paths:           []string{path},
		Sets:            sets,
		LanguageVersion: LanguageVersionFor(target),
		Parallel:        true,
		CacheDirectory:  cacheDir,
		SkipPatterns:    skipPatternsFor(ext),
		MemoryLimitMB:   memoryLimitMB,
	}
}

// Write emits cfg as a PHP-literal-returning configuration script in
// dir, under a unique name so concurrent invocations never collide.
// The Go side only ever writes this file; it is never parsed back.
func Write(dir string, cfg ToolConfig) (string, error) {
	name := fmt.Sprintf("rector_%s.php", uuid.New().String())
	path := filepath.Join(dir, name)

	var b strings.Builder
	b.WriteString("<?php\n\n")
	b.WriteString("declare(strict_types=1);\n\n")
	b.WriteString("use Rector\\Config\\RectorConfig;\n\n")
	b.WriteString("return static function (RectorConfig $rectorConfig): void {\n")

	b.WriteString("    $rectorConfig->paths([\n")
	for _, p := range cfg.Paths {
		fmt.Fprintf(&b, "        %s,\n", phpString(p))
	}
	b.WriteString("    ]);\n\n")

	b.WriteString("    $rectorConfig->sets([\n")
	for _, s := range cfg.Sets {
		fmt.Fprintf(&b, "        %s,\n", phpString(s))
	}
	b.WriteString("    ]);\n\n")

	fmt.Fprintf(&b, "    $rectorConfig->phpVersion(%s);\n", phpVersionConstant(cfg.LanguageVersion))
	fmt.Fprintf(&b, "    $rectorConfig->parallel(%s);\n", phpBool(cfg.Parallel))
	fmt.Fprintf(&b, "    $rectorConfig->cacheDirectory(%s);\n", phpString(cfg.CacheDirectory))

	b.WriteString("    $rectorConfig->skip([\n")
	for _, s := range cfg.SkipPatterns {
		fmt.Fprintf(&b, "        %s,\n", phpString(s))
	}
	b.WriteString("    ]);\n\n")

	if cfg.MemoryLimitMB > 0 {
		fmt.Fprintf(&b, "    $rectorConfig->memoryLimit('%dM');\n", cfg.MemoryLimitMB)
	}

	b.WriteString("};\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write refactor tool config %s: %w", path, err)
	}

	return path, nil
}

// Cleanup removes only generated config files matching the rector_*.php
// naming convention, never the persistent tool cache directory.
func Cleanup(path string) error {
	if !strings.HasPrefix(filepath.Base(path), "rector_") {
		return nil
	}
	return os.Remove(path)
}

func phpString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

func phpBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func phpVersionConstant(version string) string {
	switch version {
	case "8.2":
		return "PhpVersion::PHP_82"
	case "8.1":
		return "PhpVersion::PHP_81"
	default:
		return "PhpVersion::PHP_80"
	}
}
