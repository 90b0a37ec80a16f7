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
	"log"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/IntegralMaster/cmd/integralmaster/config"
	"github.com/AleutianAI/IntegralMaster/pkg/ux"
)

// --- Global Command Variables ---
var (
	serverOverride string  // CLI override for server.base_url
	plainOutput    bool    // Disable styled output (scripting)
	lowerBound     float64 // Lower integration bound
	upperBound     float64 // Upper integration bound
	variableName   string  // Integration variable
	runLocal       bool    // Evaluate in-process instead of calling the server
	jsonOutput     bool    // Output as JSON
	outputPath     string  // Explicit output file for the report command
	parallelism    int     // Concurrent requests for batch evaluation

	rootCmd = &cobra.Command{
		Use:   "integralmaster",
		Short: "A cli to evaluate definite integrals and typeset step-by-step reports",
		Long: `IntegralMaster evaluates definite integrals symbolically, explains the
				derivation as a numbered list of rule applications, and typesets
				the result into a PDF report via a LaTeX toolchain.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := config.Load(); err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			if plainOutput {
				ux.SetPlain(true)
			}
		},
	}

	// --- Evaluation ---
	evaluateCmd = &cobra.Command{
		Use:   "evaluate [expression...]",
		Short: "Evaluate one or more definite integrals and print the derivation steps",
		Args:  cobra.MinimumNArgs(1),
		Run:   runEvaluateCommand, // Defined in cmd_evaluate.go
	}

	// --- Report ---
	reportCmd = &cobra.Command{
		Use:   "report [expression]",
		Short: "Compile a step-by-step PDF report for a definite integral",
		Args:  cobra.ExactArgs(1),
		Run:   runReportCommand, // Defined in cmd_report.go
	}

	// --- Health ---
	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check whether the report service is reachable",
		Run:   runHealthCommand, // Defined in cmd_health.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&serverOverride, "server", "",
		"Report service base URL (overrides the config file)")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false,
		"Plain output without colors or icons (scripting)")

	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().Float64VarP(&lowerBound, "lower", "l", 0, "Lower integration bound")
	evaluateCmd.Flags().Float64VarP(&upperBound, "upper", "u", 1, "Upper integration bound")
	evaluateCmd.Flags().StringVar(&variableName, "variable", "x", "Integration variable")
	evaluateCmd.Flags().BoolVar(&runLocal, "local", false,
		"Evaluate in-process without contacting the report service")
	evaluateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON for scripting")
	evaluateCmd.Flags().IntVar(&parallelism, "parallel", 4,
		"Maximum concurrent requests when evaluating multiple expressions")

	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Float64VarP(&lowerBound, "lower", "l", 0, "Lower integration bound")
	reportCmd.Flags().Float64VarP(&upperBound, "upper", "u", 1, "Upper integration bound")
	reportCmd.Flags().StringVar(&variableName, "variable", "x", "Integration variable")
	reportCmd.Flags().BoolVar(&runLocal, "local", false,
		"Compile in-process with the configured LaTeX toolchain")
	reportCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Output filename (default: <output dir>/integral_report.pdf)")

	rootCmd.AddCommand(healthCmd)
}

// serverBaseURL resolves the service URL from the flag or the config file.
func serverBaseURL() string {
	if serverOverride != "" {
		return serverOverride
	}
	return config.Global.Server.BaseURL
}
