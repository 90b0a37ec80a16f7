// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package texcompile

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
)

// =============================================================================
// COMPILER
// =============================================================================

const (
	// DefaultCommand is the LaTeX compiler probed on PATH.
	DefaultCommand = "pdflatex"

	// DefaultTimeout bounds one compiler invocation. The process is killed
	// once exceeded and the request resolves as a compilation failure.
	DefaultTimeout = 60 * time.Second

	// sourceName is the source filename inside the per-request directory.
	sourceName = "report.tex"
)

// Compiler invokes the external LaTeX toolchain.
//
// Description:
//
//	Each Compile call serializes the report into a freshly created working
//	directory, runs the compiler there, and removes the directory before
//	returning, on every exit path. Nothing is shared between requests, so
//	concurrent compiles never observe each other's files.
//
// Thread Safety: Safe for concurrent use.
type Compiler struct {
	command string
	timeout time.Duration
	workDir string
}

// Option configures the Compiler.
type Option func(*Compiler)

// WithCommand overrides the compiler binary (name on PATH or absolute path).
func WithCommand(command string) Option {
	return func(c *Compiler) {
		c.command = command
	}
}

// WithTimeout overrides the per-invocation deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Compiler) {
		c.timeout = d
	}
}

// WithWorkDir sets the parent directory under which per-request working
// directories are created. Defaults to the system temp directory.
func WithWorkDir(dir string) Option {
	return func(c *Compiler) {
		c.workDir = dir
	}
}

// NewCompiler creates a Compiler with the default toolchain settings.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		command: DefaultCommand,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the compiler binary can be found.
func (c *Compiler) Available() bool {
	_, err := exec.LookPath(c.command)
	return err == nil
}

// Compile renders content to LaTeX source and runs the external compiler.
//
// Description:
//
//	All compile-level failures are returned as typed Artifact statuses,
//	never as errors: a missing toolchain yields StatusToolchainUnavailable,
//	a nonzero exit or deadline overrun yields StatusCompilationFailed with
//	the captured diagnostic log. The error return covers only invalid
//	input, context cancellation, and local filesystem faults.
//
// Inputs:
//
//	ctx - Context for cancellation; the compiler subprocess is bounded by
//	      the configured timeout on top of it
//	content - Assembled report content
//
// Outputs:
//
//	*Artifact - Typed outcome; Source is populated on every path
//	error - Non-nil only for input, cancellation, or filesystem faults
//
// Thread Safety: Safe for concurrent use.
func (c *Compiler) Compile(ctx context.Context, content datatypes.ReportContent) (*Artifact, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}

	source, err := RenderDocument(content)
	if err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}

	if !c.Available() {
		slog.Warn("LaTeX toolchain not installed",
			slog.String("command", c.command),
		)
		return &Artifact{
			Status: StatusToolchainUnavailable,
			Source: source,
			Remediation: fmt.Sprintf(
				"%s was not found on PATH; install a TeX distribution (e.g. TeX Live) or download the raw source instead", c.command),
		}, nil
	}

	// Working directory exclusive to this request.
	dir, err := os.MkdirTemp(c.workDir, "texcompile-*")
	if err != nil {
		return nil, fmt.Errorf("creating working directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			slog.Warn("Working directory cleanup failed",
				slog.String("dir", dir),
				slog.String("error", rmErr.Error()),
			)
		}
	}()

	srcPath := filepath.Join(dir, sourceName)
	if err := os.WriteFile(srcPath, []byte(source), 0o600); err != nil {
		return nil, fmt.Errorf("writing source document: %w", err)
	}

	log, runErr := c.run(ctx, dir, srcPath)
	if runErr != nil {
		// Caller cancellation propagates as an error, not an artifact.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Debug("LaTeX compilation failed",
			slog.String("command", c.command),
			slog.String("error", runErr.Error()),
		)
		return &Artifact{
			Status: StatusCompilationFailed,
			Source: source,
			Log:    log,
		}, nil
	}

	pdf, err := os.ReadFile(filepath.Join(dir, "report.pdf"))
	if err != nil {
		return &Artifact{
			Status: StatusCompilationFailed,
			Source: source,
			Log:    fmt.Sprintf("compiler exited cleanly but produced no artifact: %v\n%s", err, log),
		}, nil
	}

	return &Artifact{
		Status: StatusSuccess,
		PDF:    pdf,
		Source: source,
	}, nil
}

// run executes the compiler subprocess and returns its combined diagnostics.
func (c *Compiler) run(ctx context.Context, dir, srcPath string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, c.command,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", dir,
		srcPath,
	)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Helper processes spawned by the compiler inherit the output pipes;
	// without a wait delay Run would block on them after the deadline kill.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	log := stdout.String() + stderr.String()

	if cmdCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return fmt.Sprintf("compiler killed after exceeding the %s deadline\n%s", c.timeout, log),
			fmt.Errorf("compilation timed out after %s", c.timeout)
	}
	if err != nil {
		return log, fmt.Errorf("compiler exited: %w", err)
	}

	slog.Debug("LaTeX compilation completed",
		slog.String("command", c.command),
		slog.Duration("duration", time.Since(start)),
	)
	return log, nil
}
