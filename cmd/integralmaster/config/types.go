// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
)

// CurrentConfigVersion is written into new config files.
const CurrentConfigVersion = "1"

type IntegralMasterConfig struct {
	// Meta: config file bookkeeping
	Meta MetaConfig `yaml:"meta"`

	// Server: where the report service lives
	Server ServerConfig `yaml:"server"`

	// Compiler: the local LaTeX toolchain used for offline compilation
	Compiler CompilerConfig `yaml:"compiler"`

	// Output: where generated reports land on disk
	Output OutputConfig `yaml:"output"`
}

type MetaConfig struct {
	Version string `yaml:"version"`
}

type ServerConfig struct {
	BaseURL        string `yaml:"base_url"`        // e.g. http://localhost:12230
	TimeoutSeconds int    `yaml:"timeout_seconds"` // per-request HTTP timeout
}

type CompilerConfig struct {
	Command        string `yaml:"command"`         // e.g. pdflatex
	TimeoutSeconds int    `yaml:"timeout_seconds"` // compile deadline
}

type OutputConfig struct {
	Directory string `yaml:"directory"` // PDF and .tex fallback destination
}

// defaultOutputDirectory prefers ~/integralmaster-reports, falling back to
// the current directory when the home directory cannot be resolved.
func defaultOutputDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "integralmaster-reports")
}

func DefaultConfig() IntegralMasterConfig {
	return IntegralMasterConfig{
		Meta: MetaConfig{
			Version: CurrentConfigVersion,
		},
		Server: ServerConfig{
			BaseURL:        "http://localhost:12230",
			TimeoutSeconds: 120,
		},
		Compiler: CompilerConfig{
			Command:        "pdflatex",
			TimeoutSeconds: 60,
		},
		Output: OutputConfig{
			Directory: defaultOutputDirectory(),
		},
	}
}
