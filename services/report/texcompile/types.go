// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package texcompile turns assembled report content into a compiled PDF via
// an external LaTeX toolchain, with per-request working directories and
// guaranteed cleanup on every exit path.
package texcompile

import "errors"

// =============================================================================
// ERRORS
// =============================================================================

// ErrInvalidInput indicates invalid input parameters.
var ErrInvalidInput = errors.New("invalid input")

// =============================================================================
// ARTIFACT
// =============================================================================

// Status classifies the outcome of a compile request.
type Status string

const (
	// StatusSuccess means the compiler produced a PDF.
	StatusSuccess Status = "success"

	// StatusToolchainUnavailable means the compiler binary is not
	// installed; the raw source remains available as a fallback.
	StatusToolchainUnavailable Status = "toolchain_unavailable"

	// StatusCompilationFailed means the compiler ran and rejected the
	// document, or exceeded its deadline; the diagnostic log and raw
	// source remain available.
	StatusCompilationFailed Status = "compilation_failed"
)

// Artifact is the result of one compile request. Created per request, never
// cached or reused.
//
// Source is populated on every outcome so the caller can always offer the
// raw document as a secondary artifact. PDF is populated only on success;
// Log only on failure.
type Artifact struct {
	Status      Status
	PDF         []byte
	Source      string
	Log         string
	Remediation string
}

// Succeeded reports whether the artifact carries a compiled PDF.
func (a *Artifact) Succeeded() bool {
	return a.Status == StatusSuccess
}
