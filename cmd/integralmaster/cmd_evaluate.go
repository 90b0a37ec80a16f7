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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/IntegralMaster/pkg/ux"
	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
)

// runEvaluateCommand evaluates each expression argument and prints the
// derivation steps. Multiple expressions are evaluated concurrently, bounded
// by --parallel, and printed in argument order.
func runEvaluateCommand(cmd *cobra.Command, args []string) {
	reports := make([]datatypes.ReportContent, len(args))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(parallelism)
	for i, exprText := range args {
		g.Go(func() error {
			req := datatypes.EvaluateRequest{
				Expression: exprText,
				Variable:   variableName,
				LowerBound: lowerBound,
				UpperBound: upperBound,
			}
			req.EnsureDefaults()
			if err := req.Validate(); err != nil {
				return fmt.Errorf("%s: %w", exprText, err)
			}

			if runLocal {
				content, err := localEvaluate(req)
				if err != nil {
					return fmt.Errorf("%s: %w", exprText, err)
				}
				reports[i] = content
				return nil
			}

			resp, err := callEvaluate(req)
			if err != nil {
				return fmt.Errorf("%s: %w", exprText, err)
			}
			reports[i] = resp.Report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		ux.Error(fmt.Sprintf("Evaluation failed: %v", err))
		os.Exit(1)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(reports); err != nil {
			ux.Error(fmt.Sprintf("Failed to encode JSON: %v", err))
			os.Exit(1)
		}
		return
	}

	for _, report := range reports {
		printReport(report)
	}
}

// printReport renders one evaluated integral to the terminal.
func printReport(report datatypes.ReportContent) {
	ux.Title(fmt.Sprintf("Integral of %s d%s on [%g, %g]",
		report.FunctionExpr, report.Variable, report.LowerBound, report.UpperBound))

	texts := make([]string, len(report.Steps))
	for i, step := range report.Steps {
		texts[i] = step.Text
	}
	ux.StepList(texts)

	ux.KeyValue("Antiderivative", report.AntiderivativeExpr)
	ux.KeyValue(fmt.Sprintf("F(%g) - F(%g)", report.UpperBound, report.LowerBound),
		fmt.Sprintf("%g - %g", report.FUpper, report.FLower))
	ux.KeyValue("Result", report.FinalResultText)
	ux.Rule()
}
