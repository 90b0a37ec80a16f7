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
	"testing"

	"gopkg.in/yaml.v3"
)

// TestCreateDefault verifies default config creation.
func TestCreateDefault(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".integralmaster", "integralmaster.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed: %v", err)
	}

	// Verify the file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	// Read and verify the config
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}

	var cfg IntegralMasterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}

	// Verify some defaults
	if cfg.Server.BaseURL != "http://localhost:12230" {
		t.Errorf("Server.BaseURL = %q, want %q", cfg.Server.BaseURL, "http://localhost:12230")
	}
	if cfg.Compiler.Command != "pdflatex" {
		t.Errorf("Compiler.Command = %q, want %q", cfg.Compiler.Command, "pdflatex")
	}
	if cfg.Meta.Version != CurrentConfigVersion {
		t.Errorf("Meta.Version = %q, want %q", cfg.Meta.Version, CurrentConfigVersion)
	}
}

// TestCreateDefault_DirectoryCreation verifies directory is created.
func TestCreateDefault_DirectoryCreation(t *testing.T) {
	tempDir := t.TempDir()

	// Use a nested path
	configPath := filepath.Join(tempDir, "deep", "nested", "path", "integralmaster.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed with nested path: %v", err)
	}

	// Verify the directories were created
	dirPath := filepath.Dir(configPath)
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		t.Fatal("nested directories were not created")
	}
}

// TestDefaultConfig verifies sane built-in defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.TimeoutSeconds <= 0 {
		t.Errorf("Server.TimeoutSeconds = %d, want positive", cfg.Server.TimeoutSeconds)
	}
	if cfg.Compiler.TimeoutSeconds <= 0 {
		t.Errorf("Compiler.TimeoutSeconds = %d, want positive", cfg.Compiler.TimeoutSeconds)
	}
	if cfg.Output.Directory == "" {
		t.Error("Output.Directory should never be empty")
	}
}
