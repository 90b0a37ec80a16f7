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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateDefinitePowerRule(t *testing.T) {
	eng := NewEngine()
	expr := mustParse(t, "x^2")

	ev, err := eng.EvaluateDefinite(expr, "x", 0, 2)
	require.NoError(t, err)

	assert.True(t, ev.Antiderivative.Equal(Mul(Rat(1, 3), Pow(Var("x"), Int(3)))))
	assert.InDelta(t, 0.0, ev.FLower, 1e-12)
	assert.InDelta(t, 8.0/3.0, ev.FUpper, 1e-12)
	assert.InDelta(t, 8.0/3.0, ev.Result, 1e-12)
	assert.IsType(t, &LeafRule{}, ev.Derivation)
}

func TestEvaluateDefiniteByParts(t *testing.T) {
	eng := NewEngine()
	ev, err := eng.EvaluateDefinite(mustParse(t, "x*exp(x)"), "x", 0, 1)
	require.NoError(t, err)

	// ∫0..1 x e^x dx = 1 exactly.
	assert.InDelta(t, 1.0, ev.Result, 1e-12)
	assert.IsType(t, &PartsRule{}, ev.Derivation)
}

func TestEvaluateDefiniteUnsupported(t *testing.T) {
	eng := NewEngine()
	_, err := eng.EvaluateDefinite(mustParse(t, "exp(x^2)"), "x", 0, 1)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestEvaluateDefiniteDomainError(t *testing.T) {
	eng := NewEngine()
	// ∫ 1/x dx = ln|x| is not evaluable at 0.
	_, err := eng.EvaluateDefinite(mustParse(t, "1/x"), "x", 0, 1)
	require.ErrorIs(t, err, ErrNotEvaluable)
}

func TestEvalAt(t *testing.T) {
	eng := NewEngine()
	got, err := eng.EvalAt(mustParse(t, "x^2 + 1"), "x", 3)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-12)

	_, err = eng.EvalAt(mustParse(t, "ln(x)"), "x", -1)
	require.ErrorIs(t, err, ErrNotEvaluable)

	// A leftover free symbol is not evaluable either.
	_, err = eng.EvalAt(mustParse(t, "x + y"), "x", 1)
	require.ErrorIs(t, err, ErrNotEvaluable)
}

// =============================================================================
// RENDERER
// =============================================================================

func TestLatexRendererMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "power", input: "x^2", want: "x^{2}"},
		{name: "cubic third", input: "x^3/3", want: `\frac{1}{3} x^{3}`},
		{name: "exp", input: "exp(x)", want: "e^{x}"},
		{name: "log abs", input: "ln(x)", want: `\ln\left|x\right|`},
		{name: "reciprocal", input: "1/x", want: `\frac{1}{x}`},
		{name: "sqrt call", input: "sqrt(x)", want: `\sqrt{x}`},
		{name: "trig", input: "sin(2*x)", want: `\sin\left(2 x\right)`},
		{name: "greek variable", input: "sec(theta)", want: `\sec\left(\theta\right)`},
		{name: "difference", input: "x^2 - 1", want: "x^{2} - 1"},
	}
	r := LatexRenderer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustParse(t, tt.input)
			got, err := r.DisplayMarkup(e)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLatexRendererNilExpr(t *testing.T) {
	_, err := LatexRenderer{}.DisplayMarkup(nil)
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "nil expression", rerr.Cause)
}
