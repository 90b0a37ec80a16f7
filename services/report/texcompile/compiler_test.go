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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
)

// writeStub creates an executable shell script standing in for pdflatex.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fakelatex")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func sampleContent() datatypes.ReportContent {
	return datatypes.ReportContent{
		FunctionExpr:         "x^2",
		FunctionMarkup:       "x^{2}",
		AntiderivativeExpr:   "1/3*x^3",
		AntiderivativeMarkup: `\frac{1}{3} x^{3}`,
		Steps: []datatypes.StepInfo{
			{Text: "Power Rule Applied", Order: 0},
		},
		Variable:        "x",
		VariableMarkup:  "x",
		LowerBound:      0,
		UpperBound:      2,
		FLower:          0,
		FUpper:          8.0 / 3.0,
		FinalResult:     8.0 / 3.0,
		FinalResultText: "2.66667",
	}
}

// residualEntries lists what remains under the compiler's parent work dir.
func residualEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestCompileSuccess(t *testing.T) {
	stub := writeStub(t, "printf '%%PDF-1.4 stub' > report.pdf\nexit 0\n")
	parent := t.TempDir()
	c := NewCompiler(WithCommand(stub), WithWorkDir(parent))

	art, err := c.Compile(context.Background(), sampleContent())
	require.NoError(t, err)

	assert.True(t, art.Succeeded())
	assert.Equal(t, StatusSuccess, art.Status)
	assert.True(t, strings.HasPrefix(string(art.PDF), "%PDF"), "artifact is not a PDF")
	assert.Contains(t, art.Source, `\documentclass`)
	assert.Empty(t, residualEntries(t, parent), "working directory leaked")
}

func TestCompileToolchainUnavailable(t *testing.T) {
	parent := t.TempDir()
	c := NewCompiler(WithCommand("definitely-not-a-latex-binary"), WithWorkDir(parent))

	art, err := c.Compile(context.Background(), sampleContent())
	require.NoError(t, err)

	assert.Equal(t, StatusToolchainUnavailable, art.Status)
	assert.Empty(t, art.PDF)
	assert.Contains(t, art.Remediation, "TeX")
	assert.Contains(t, art.Source, `\documentclass`, "raw source fallback missing")
	assert.Empty(t, residualEntries(t, parent), "working directory leaked")
}

func TestCompileFailureCapturesLog(t *testing.T) {
	stub := writeStub(t, "echo 'l.12 Undefined control sequence'\nexit 1\n")
	parent := t.TempDir()
	c := NewCompiler(WithCommand(stub), WithWorkDir(parent))

	art, err := c.Compile(context.Background(), sampleContent())
	require.NoError(t, err)

	assert.Equal(t, StatusCompilationFailed, art.Status)
	assert.Empty(t, art.PDF)
	assert.Contains(t, art.Log, "Undefined control sequence")
	assert.Contains(t, art.Source, `\documentclass`)
	assert.Empty(t, residualEntries(t, parent), "working directory leaked")
}

func TestCompileMissingArtifactIsFailure(t *testing.T) {
	// Exit 0 without producing a PDF.
	stub := writeStub(t, "exit 0\n")
	parent := t.TempDir()
	c := NewCompiler(WithCommand(stub), WithWorkDir(parent))

	art, err := c.Compile(context.Background(), sampleContent())
	require.NoError(t, err)

	assert.Equal(t, StatusCompilationFailed, art.Status)
	assert.Contains(t, art.Log, "no artifact")
	assert.Empty(t, residualEntries(t, parent), "working directory leaked")
}

func TestCompileTimeout(t *testing.T) {
	stub := writeStub(t, "sleep 5\n")
	parent := t.TempDir()
	c := NewCompiler(WithCommand(stub), WithWorkDir(parent), WithTimeout(100*time.Millisecond))

	start := time.Now()
	art, err := c.Compile(context.Background(), sampleContent())
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 3*time.Second, "timeout did not kill the compiler")
	assert.Equal(t, StatusCompilationFailed, art.Status)
	assert.Contains(t, art.Log, "deadline")
	assert.Empty(t, residualEntries(t, parent), "working directory leaked")
}

func TestCompileCancelledContext(t *testing.T) {
	stub := writeStub(t, "sleep 5\n")
	parent := t.TempDir()
	c := NewCompiler(WithCommand(stub), WithWorkDir(parent))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Compile(ctx, sampleContent())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, residualEntries(t, parent), "working directory leaked")
}

func TestCompileNilContext(t *testing.T) {
	c := NewCompiler()
	_, err := c.Compile(nil, sampleContent()) //nolint:staticcheck
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompileConcurrentRequestsAreIsolated(t *testing.T) {
	// Each invocation writes its own report.pdf into its own directory;
	// concurrent compiles must not collide.
	stub := writeStub(t, "printf '%%PDF-1.4 stub' > report.pdf\nexit 0\n")
	parent := t.TempDir()
	c := NewCompiler(WithCommand(stub), WithWorkDir(parent))

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			art, err := c.Compile(context.Background(), sampleContent())
			if err == nil && !art.Succeeded() {
				err = assert.AnError
			}
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}
	assert.Empty(t, residualEntries(t, parent), "working directory leaked")
}
