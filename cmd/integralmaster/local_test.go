// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the in-process evaluation and compile pipeline

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/IntegralMaster/cmd/integralmaster/config"
	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
)

func TestLocalEvaluate_PowerRule(t *testing.T) {
	req := datatypes.EvaluateRequest{Expression: "x^2", Variable: "x", UpperBound: 2}
	req.EnsureDefaults()

	content, err := localEvaluate(req)
	require.NoError(t, err)

	assert.Equal(t, "x^2", content.FunctionExpr)
	assert.Equal(t, "1/3*x^3", content.AntiderivativeExpr)
	assert.Equal(t, "2.66667", content.FinalResultText)
	require.Len(t, content.Steps, 1)
	assert.Equal(t, "Power Rule Applied", content.Steps[0].Text)
}

func TestLocalEvaluate_ParseError(t *testing.T) {
	req := datatypes.EvaluateRequest{Expression: "x^^2", Variable: "x"}
	req.EnsureDefaults()

	_, err := localEvaluate(req)
	require.Error(t, err)
}

func TestLocalCompile_WithStubToolchain(t *testing.T) {
	stub := filepath.Join(t.TempDir(), "fakelatex")
	script := "#!/bin/sh\nprintf '%%PDF-1.4 stub' > report.pdf\nexit 0\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	prev := config.Global.Compiler
	config.Global.Compiler = config.CompilerConfig{Command: stub, TimeoutSeconds: 10}
	defer func() { config.Global.Compiler = prev }()

	req := datatypes.EvaluateRequest{Expression: "x^2", Variable: "x", UpperBound: 2}
	req.EnsureDefaults()

	pdf, failure, err := localCompile(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, failure)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}

func TestLocalCompile_ToolchainMissing(t *testing.T) {
	prev := config.Global.Compiler
	config.Global.Compiler = config.CompilerConfig{Command: "definitely-not-a-latex-binary"}
	defer func() { config.Global.Compiler = prev }()

	req := datatypes.EvaluateRequest{Expression: "x^2", Variable: "x", UpperBound: 2}
	req.EnsureDefaults()

	pdf, failure, err := localCompile(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, pdf)
	require.NotNil(t, failure)
	assert.Contains(t, failure.TexSource, `\documentclass`)
}

func TestResolveOutputPath(t *testing.T) {
	prevOutput := outputPath
	prevDir := config.Global.Output.Directory
	defer func() {
		outputPath = prevOutput
		config.Global.Output.Directory = prevDir
	}()

	outputPath = "/tmp/custom.pdf"
	assert.Equal(t, "/tmp/custom.pdf", resolveOutputPath())

	outputPath = ""
	config.Global.Output.Directory = "/tmp/reports"
	assert.Equal(t, filepath.Join("/tmp/reports", "integral_report.pdf"), resolveOutputPath())
}

func TestWriteReportFile_CreatesDirectories(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "dir", "integral_report.pdf")
	require.NoError(t, writeReportFile(dest, []byte("%PDF-1.4 stub")))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 stub", string(data))
}
