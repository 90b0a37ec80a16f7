// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package symbolic

import "fmt"

// Renderer converts an expression into display markup for the report layer.
// Implementations must return an error rather than panic; callers degrade to
// Expr.String() when rendering fails.
type Renderer interface {
	DisplayMarkup(e Expr) (string, error)
}

// RenderError wraps a failure inside markup generation.
type RenderError struct {
	// Expr is the plain-text form of the expression that failed to render.
	Expr string

	// Cause is the recovered panic value or a descriptive message.
	Cause string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed for %q: %s", e.Expr, e.Cause)
}

// LatexRenderer renders expressions as LaTeX math-mode markup. The zero
// value is ready to use.
type LatexRenderer struct{}

// DisplayMarkup returns the LaTeX form of e. Panics raised by malformed
// trees are converted to a *RenderError so a single bad expression cannot
// take down report generation.
func (LatexRenderer) DisplayMarkup(e Expr) (out string, err error) {
	if e == nil {
		return "", &RenderError{Expr: "", Cause: "nil expression"}
	}
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{Expr: e.String(), Cause: fmt.Sprint(r)}
		}
	}()
	return e.LaTeX(), nil
}
