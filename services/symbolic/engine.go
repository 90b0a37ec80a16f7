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

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotEvaluable reports that an antiderivative could not be evaluated to a
// finite number at one of the requested bounds (domain violation, pole, or a
// free symbol left after substitution).
var ErrNotEvaluable = errors.New("symbolic: antiderivative is not numerically evaluable at the given bound")

// Engine is the symbolic computation facade used by the report service and
// the CLI. The zero value is ready to use; Engine is stateless and safe for
// concurrent use.
type Engine struct{}

// NewEngine returns a ready-to-use Engine.
func NewEngine() *Engine { return &Engine{} }

// Parse converts expression text into an Expr. Malformed input yields a
// *ParseError.
func (*Engine) Parse(text string) (Expr, error) {
	return Parse(text)
}

// Integrate computes an antiderivative of expr together with its derivation
// tree. Integrands outside the rule table yield ErrUnsupported.
func (*Engine) Integrate(expr Expr, variable string) (Expr, Rule, error) {
	return Integrate(expr, variable)
}

// Simplify returns the normal form of expr.
func (*Engine) Simplify(expr Expr) Expr {
	return expr.Simplify()
}

// EvalAt substitutes value for the named variable and evaluates the result
// numerically.
func (*Engine) EvalAt(expr Expr, variable string, value float64) (float64, error) {
	out, ok := expr.Sub(variable, Float(value)).Simplify().Eval()
	if !ok || math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, fmt.Errorf("%w: %s at %s=%g", ErrNotEvaluable, expr.String(), variable, value)
	}
	return out, nil
}

// =============================================================================
// DEFINITE EVALUATION
// =============================================================================

// Evaluation is the complete outcome of a definite integral computation. All
// fields are populated when EvaluateDefinite returns without error.
type Evaluation struct {
	// Integrand is the simplified input expression.
	Integrand Expr

	// Variable is the integration variable name.
	Variable string

	// Lower and Upper are the bounds of integration.
	Lower float64
	Upper float64

	// Antiderivative is F with F' = Integrand (constant omitted).
	Antiderivative Expr

	// Derivation records how Antiderivative was obtained.
	Derivation Rule

	// FLower and FUpper are the antiderivative evaluated at the bounds.
	FLower float64
	FUpper float64

	// Result is FUpper - FLower.
	Result float64
}

// EvaluateDefinite computes the definite integral of expr over
// [lower, upper] by the fundamental theorem of calculus.
func (e *Engine) EvaluateDefinite(expr Expr, variable string, lower, upper float64) (*Evaluation, error) {
	integrand := expr.Simplify()
	anti, rule, err := Integrate(integrand, variable)
	if err != nil {
		return nil, err
	}
	fLower, err := e.EvalAt(anti, variable, lower)
	if err != nil {
		return nil, err
	}
	fUpper, err := e.EvalAt(anti, variable, upper)
	if err != nil {
		return nil, err
	}
	return &Evaluation{
		Integrand:      integrand,
		Variable:       variable,
		Lower:          lower,
		Upper:          upper,
		Antiderivative: anti,
		Derivation:     rule,
		FLower:         fLower,
		FUpper:         fUpper,
		Result:         fUpper - fLower,
	}, nil
}
