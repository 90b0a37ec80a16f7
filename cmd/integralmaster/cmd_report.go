// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/IntegralMaster/cmd/integralmaster/config"
	"github.com/AleutianAI/IntegralMaster/pkg/ux"
	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
)

// runReportCommand compiles a PDF report for the expression argument. When
// the toolchain is missing or rejects the document, the raw .tex source is
// written next to where the PDF would have gone so the user keeps a usable
// document either way.
func runReportCommand(cmd *cobra.Command, args []string) {
	req := datatypes.EvaluateRequest{
		Expression: args[0],
		Variable:   variableName,
		LowerBound: lowerBound,
		UpperBound: upperBound,
	}
	req.EnsureDefaults()
	if err := req.Validate(); err != nil {
		ux.Error(fmt.Sprintf("Invalid request: %v", err))
		os.Exit(1)
	}

	var (
		pdf     []byte
		failure *compileFailure
		err     error
	)
	if runLocal {
		pdf, failure, err = localCompile(context.Background(), req)
	} else {
		pdf, failure, err = callCompile(req)
	}
	if err != nil {
		ux.Error(fmt.Sprintf("Report generation failed: %v", err))
		os.Exit(1)
	}

	dest := resolveOutputPath()
	if failure != nil {
		texPath := strings.TrimSuffix(dest, filepath.Ext(dest)) + ".tex"
		if writeErr := writeReportFile(texPath, []byte(failure.TexSource)); writeErr != nil {
			ux.Error(fmt.Sprintf("Failed to write the LaTeX fallback: %v", writeErr))
			os.Exit(1)
		}
		ux.Warning(failure.Error)
		if failure.Remediation != "" {
			ux.Info(failure.Remediation)
		}
		if failure.Log != "" {
			ux.Muted(failure.Log)
		}
		ux.Success(fmt.Sprintf("LaTeX source saved to %s", texPath))
		os.Exit(1)
	}

	if err := writeReportFile(dest, pdf); err != nil {
		ux.Error(fmt.Sprintf("Failed to write the report: %v", err))
		os.Exit(1)
	}
	ux.Success(fmt.Sprintf("Report saved to %s", dest))
}

// resolveOutputPath picks the PDF destination from --output or the config
// file's output directory.
func resolveOutputPath() string {
	if outputPath != "" {
		return outputPath
	}
	dir := config.Global.Output.Directory
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "integral_report.pdf")
}

func writeReportFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the output directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
