// Package refactor implements the Refactor Driver (C4): configuration
// generation, sub-process invocation under a time budget, JSON schema
// tolerant parsing, and Finding synthesis.
package refactor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

// State is the Refactor Driver's invocation state machine.
type State string

const (
	StateIdle        State = "idle"
	StateConfiguring State = "configuring"
	StateLaunched    State = "launched"
	StateRunning     State = "running"
	StateCompleted   State = "completed"
	StateTimedOut    State = "timed_out"
	StateFailed      State = "failed"
	StateParsed      State = "parsed"
	StateFinalized   State = "finalized"
)

// Result is the Refactor Driver's complete invocation envelope.
type Result struct {
	State      State
	Findings   []types.Finding
	Errors     []string
	ExitCode   int
	ElapsedS   float64
	RawPreview string
}

// Driver runs the external refactoring binary against one extension.
type Driver struct {
	BinaryPath    string
	CacheDir      string
	Timeout       time.Duration
	MemoryLimitMB int
	Classifier    Classifier
	Logger        *logrus.Logger
}

// NewDriver constructs a Driver with the given binary path and rule
// classifier (typically a *rules.Registry).
func NewDriver(binaryPath, cacheDir string, classifier Classifier, logger *logrus.Logger) *Driver {
	return &Driver{
		BinaryPath: binaryPath,
		CacheDir:   cacheDir,
		Timeout:    DefaultTimeout,
		Classifier: classifier,
		Logger:     logger,
	}
}

// HasRequiredTools reports whether the configured binary exists and is
// executable, matching the ExternalToolUnavailable error class.
func (d *Driver) HasRequiredTools() bool {
	info, err := os.Stat(d.BinaryPath)
	if err != nil {
		return false
	}
	return info.Mode()&0o111 != 0
}

// Run drives one extension through the full state machine: generate
// config → invoke binary → parse output → synthesize findings.
func (d *Driver) Run(ctx context.Context, ext types.Extension, path string, ruleSetIDs []string, target types.Version) Result {
	if !d.HasRequiredTools() {
		return Result{State: StateFailed, Errors: []string{"refactor tool binary is unavailable or not executable"}}
	}

	cfg := BuildConfig(ext, path, ruleSetIDs, target, d.CacheDir, d.MemoryLimitMB)
	configPath, err := Write(d.CacheDir, cfg)
	if err != nil {
		return Result{State: StateFailed, Errors: []string{err.Error()}}
	}
	defer func() {
		if cleanupErr := Cleanup(configPath); cleanupErr != nil && d.Logger != nil {
			d.Logger.Warnf("failed to remove generated refactor tool config %s: %v", configPath, cleanupErr)
		}
	}()

	outcome := Run(ctx, RunOptions{
		BinaryPath:    d.BinaryPath,
		ConfigPath:    configPath,
		Timeout:       d.Timeout,
		MemoryLimitMB: d.MemoryLimitMB,
	})

	if outcome.TimedOut {
		return Result{
			State:      StateTimedOut,
			Errors:     []string{outcome.Err.Error()},
			ElapsedS:   outcome.ElapsedS,
			RawPreview: outcome.RawPreview(),
		}
	}
	if outcome.Err != nil {
		return Result{
			State:      StateFailed,
			Errors:     []string{outcome.Err.Error()},
			ExitCode:   outcome.ExitCode,
			ElapsedS:   outcome.ElapsedS,
			RawPreview: outcome.RawPreview(),
		}
	}
	if outcome.ExitCode != 0 {
		return Result{
			State:      StateFailed,
			Errors:     []string{fmt.Sprintf("refactor tool exited with code %d", outcome.ExitCode)},
			ExitCode:   outcome.ExitCode,
			ElapsedS:   outcome.ElapsedS,
			RawPreview: outcome.RawPreview(),
		}
	}

	parsed, parseErr := ParseOutput(outcome.Stdout)
	if parseErr != nil {
		return Result{
			State:      StateParsed,
			Errors:     []string{fmt.Sprintf("Failed to parse output: %s", parseErr.Error())},
			ExitCode:   outcome.ExitCode,
			ElapsedS:   outcome.ElapsedS,
			RawPreview: outcome.RawPreview(),
		}
	}

	findings := Synthesize(parsed, d.Classifier)

	var toolErrors []string
	if parsed.IsModern {
		toolErrors = ToolErrors(parsed.Modern.Errors)
	} else {
		toolErrors = ToolErrors(parsed.Legacy.Errors)
	}

	return Result{
		State:      StateFinalized,
		Findings:   findings,
		Errors:     toolErrors,
		ExitCode:   outcome.ExitCode,
		ElapsedS:   outcome.ElapsedS,
		RawPreview: outcome.RawPreview(),
	}
}
