package refactor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

type fakeClassifier struct{}

func (fakeClassifier) Classify(ruleID string) (types.ChangeKind, types.Severity) {
	return types.ChangeClassRemoval, types.SeverityWarning
}

func writeFakeBinary(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-rector")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func testExtension() types.Extension {
	return types.Extension{Key: "acme/my_ext", DisplayName: "My Extension", Version: types.MustParseVersion("1.2.3"), Kind: types.ExtensionLocal}
}

func TestDriver_HasRequiredTools_MissingBinary(t *testing.T) {
	d := NewDriver(filepath.Join(t.TempDir(), "does-not-exist"), t.TempDir(), fakeClassifier{}, nil)
	if d.HasRequiredTools() {
		t.Fatal("expected HasRequiredTools to be false for a missing binary")
	}
}

func TestDriver_Run_ToolUnavailable(t *testing.T) {
	d := NewDriver(filepath.Join(t.TempDir(), "does-not-exist"), t.TempDir(), fakeClassifier{}, nil)
	result := d.Run(context.Background(), testExtension(), "/some/path", []string{"generic"}, types.MustParseVersion("12.0.0"))

	if result.State != StateFailed {
		t.Fatalf("expected StateFailed, got %s", result.State)
	}
	if len(result.Errors) == 0 {
		t.Fatal("expected a non-empty error list")
	}
}

func TestDriver_Run_ModernSchemaSuccess(t *testing.T) {
	script := "#!/bin/sh\ncat <<'EOF'\n{\"totals\":{\"changed_files\":1},\"file_diffs\":[{\"file\":\"Classes/Foo.php\",\"applied_rectors\":[\"Typo3_RemovedMethodRector\"],\"diff\":\"--- a\\n+++ b\\n-old line\\n+new line\\n\"}],\"errors\":[]}\nEOF\n"
	bin := writeFakeBinary(t, script)

	d := NewDriver(bin, t.TempDir(), fakeClassifier{}, nil)
	result := d.Run(context.Background(), testExtension(), "/ext/path", []string{"generic"}, types.MustParseVersion("12.0.0"))

	if result.State != StateFinalized {
		t.Fatalf("expected StateFinalized, got %s: %v", result.State, result.Errors)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	f := result.Findings[0]
	if f.File != "Classes/Foo.php" || f.RuleID != "Typo3_RemovedMethodRector" {
		t.Fatalf("unexpected finding: %+v", f)
	}
	if f.OldCode != "old line" || f.NewCode != "new line" {
		t.Fatalf("unexpected diff split: old=%q new=%q", f.OldCode, f.NewCode)
	}
}

func TestDriver_Run_NonZeroExit(t *testing.T) {
	bin := writeFakeBinary(t, "#!/bin/sh\necho '{}' \nexit 1\n")

	d := NewDriver(bin, t.TempDir(), fakeClassifier{}, nil)
	result := d.Run(context.Background(), testExtension(), "/ext/path", []string{"generic"}, types.MustParseVersion("12.0.0"))

	if result.State != StateFailed {
		t.Fatalf("expected StateFailed, got %s", result.State)
	}
	if result.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", result.ExitCode)
	}
}

func TestDriver_Run_ParseFailure(t *testing.T) {
	bin := writeFakeBinary(t, "#!/bin/sh\necho 'not json at all'\n")

	d := NewDriver(bin, t.TempDir(), fakeClassifier{}, nil)
	result := d.Run(context.Background(), testExtension(), "/ext/path", []string{"generic"}, types.MustParseVersion("12.0.0"))

	if result.State != StateParsed {
		t.Fatalf("expected StateParsed, got %s", result.State)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one parse error, got %v", result.Errors)
	}
}

func TestDriver_Run_Timeout(t *testing.T) {
	bin := writeFakeBinary(t, "#!/bin/sh\nsleep 5\necho '{}'\n")

	d := NewDriver(bin, t.TempDir(), fakeClassifier{}, nil)
	d.Timeout = 50 * time.Millisecond

	result := d.Run(context.Background(), testExtension(), "/ext/path", []string{"generic"}, types.MustParseVersion("12.0.0"))

	if result.State != StateTimedOut {
		t.Fatalf("expected StateTimedOut, got %s: %v", result.State, result.Errors)
	}
}

func TestDriver_Run_ConfigFileCleanedUpAfterRun(t *testing.T) {
	bin := writeFakeBinary(t, "#!/bin/sh\necho '{\"changed_files\":[]}'\n")
	cacheDir := t.TempDir()

	d := NewDriver(bin, cacheDir, fakeClassifier{}, nil)
	d.Run(context.Background(), testExtension(), "/ext/path", []string{"generic"}, types.MustParseVersion("12.0.0"))

	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".php" {
			t.Fatalf("expected generated config file to be cleaned up, found %s", e.Name())
		}
	}
}
