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

func mustParse(t *testing.T, input string) Expr {
	t.Helper()
	e, err := Parse(input)
	require.NoError(t, err)
	return e
}

func TestIntegratePowerRule(t *testing.T) {
	anti, rule, err := Integrate(mustParse(t, "x^2"), "x")
	require.NoError(t, err)

	want := Mul(Rat(1, 3), Pow(Var("x"), Int(3)))
	assert.True(t, anti.Equal(want), "got %s", anti.String())

	leaf, ok := rule.(*LeafRule)
	require.True(t, ok, "expected a leaf rule, got %T", rule)
	assert.Equal(t, LeafPower, leaf.Kind)
}

func TestIntegrateLinearity(t *testing.T) {
	anti, rule, err := Integrate(mustParse(t, "x + sin(x)"), "x")
	require.NoError(t, err)

	lin, ok := rule.(*LinearityRule)
	require.True(t, ok, "expected a linearity rule, got %T", rule)
	require.Len(t, lin.Substeps, 2)
	assert.IsType(t, &LeafRule{}, lin.Substeps[0])
	assert.IsType(t, &LeafRule{}, lin.Substeps[1])

	// d/dx of the antiderivative must give back the integrand.
	assert.True(t, anti.Diff("x").Simplify().Equal(mustParse(t, "x + sin(x)")),
		"derivative of %s does not match integrand", anti.String())
}

func TestIntegrateConstantFactor(t *testing.T) {
	anti, rule, err := Integrate(mustParse(t, "3*x^2"), "x")
	require.NoError(t, err)
	assert.True(t, anti.Equal(Pow(Var("x"), Int(3))), "got %s", anti.String())

	cf, ok := rule.(*ConstantFactorRule)
	require.True(t, ok, "expected a constant factor rule, got %T", rule)
	assert.True(t, cf.Constant.Equal(Int(3)))
	assert.IsType(t, &LeafRule{}, cf.Substep)
}

func TestIntegrateByPartsXExp(t *testing.T) {
	anti, rule, err := Integrate(mustParse(t, "x*exp(x)"), "x")
	require.NoError(t, err)
	assert.Equal(t, "x*exp(x) - exp(x)", anti.String())

	parts, ok := rule.(*PartsRule)
	require.True(t, ok, "expected a parts rule, got %T", rule)
	assert.True(t, parts.U.Equal(Var("x")))
	assert.True(t, parts.DV.Equal(Apply(FuncExp, Var("x"))))
	require.NotNil(t, parts.First)
	require.NotNil(t, parts.Second)
}

func TestIntegrateByPartsCommutes(t *testing.T) {
	// Factor order must not matter for the parts match.
	anti, rule, err := Integrate(mustParse(t, "exp(x)*x"), "x")
	require.NoError(t, err)
	assert.Equal(t, "x*exp(x) - exp(x)", anti.String())
	assert.IsType(t, &PartsRule{}, rule)
}

func TestIntegrateByPartsTrig(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "x sin x", input: "x*sin(x)"},
		{name: "x cos x", input: "x*cos(x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integrand := mustParse(t, tt.input)
			anti, rule, err := Integrate(integrand, "x")
			require.NoError(t, err)
			assert.IsType(t, &PartsRule{}, rule)

			// Like terms are not collected symbolically, so verify the
			// fundamental theorem numerically at a few sample points.
			deriv := anti.Diff("x")
			for _, x := range []float64{-1.5, 0.25, 2.0} {
				want, ok := integrand.Sub("x", Float(x)).Simplify().Eval()
				require.True(t, ok)
				got, ok := deriv.Sub("x", Float(x)).Simplify().Eval()
				require.True(t, ok)
				assert.InDelta(t, want, got, 1e-9, "at x=%g for %s", x, anti.String())
			}
		})
	}
}

func TestIntegrateLogByParts(t *testing.T) {
	anti, rule, err := Integrate(mustParse(t, "ln(x)"), "x")
	require.NoError(t, err)
	assert.Equal(t, "x*ln(x) - x", anti.String())

	parts, ok := rule.(*PartsRule)
	require.True(t, ok, "expected a parts rule, got %T", rule)
	assert.True(t, parts.U.Equal(Apply(FuncLn, Var("x"))))
}

func TestIntegrateLinearSubstitution(t *testing.T) {
	anti, rule, err := Integrate(mustParse(t, "sin(2*x)"), "x")
	require.NoError(t, err)

	sub, ok := rule.(*SubstitutionRule)
	require.True(t, ok, "expected a substitution rule, got %T", rule)
	assert.True(t, sub.NewVar.Equal(Mul(Int(2), Var("x"))))
	leaf, ok := sub.Substep.(*LeafRule)
	require.True(t, ok)
	assert.Equal(t, LeafTrig, leaf.Kind)

	// -cos(2x)/2
	want := Mul(Rat(-1, 2), Apply(FuncCos, Mul(Int(2), Var("x"))))
	assert.True(t, anti.Equal(want), "got %s", anti.String())
}

func TestIntegrateShiftedPower(t *testing.T) {
	anti, rule, err := Integrate(mustParse(t, "(x + 1)^2"), "x")
	require.NoError(t, err)
	assert.IsType(t, &SubstitutionRule{}, rule)
	assert.True(t, anti.Diff("x").Simplify().Equal(mustParse(t, "(x + 1)^2").Simplify()),
		"derivative of %s does not match integrand", anti.String())
}

func TestIntegrateSecantSubstitution(t *testing.T) {
	anti, rule, err := Integrate(mustParse(t, "sqrt(x^2 - 1)"), "x")
	require.NoError(t, err)

	trig, ok := rule.(*TrigSubstitutionRule)
	require.True(t, ok, "expected a trig substitution rule, got %T", rule)
	assert.True(t, trig.AngleVar.Equal(Apply(FuncSec, Var("theta"))),
		"angle substitution was %s", trig.AngleVar.String())

	gen, ok := trig.Substep.(*GenericRule)
	require.True(t, ok, "expected a generic substep, got %T", trig.Substep)
	assert.Equal(t, "Secant Reduction Formula", gen.Label)

	// Spot-check the closed form numerically at x=2: the exact value is
	// x*sqrt(x^2-1)/2 - ln(x + sqrt(x^2-1))/2.
	got, ok := anti.Sub("x", Float(2)).Simplify().Eval()
	require.True(t, ok)
	assert.InDelta(t, 1.0735, got, 1e-3)
}

func TestIntegrateElementaryTable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		kind  LeafKind
	}{
		{name: "exp", input: "exp(x)", want: "exp(x)", kind: LeafExponential},
		{name: "sin", input: "sin(x)", want: "-cos(x)", kind: LeafTrig},
		{name: "cos", input: "cos(x)", want: "sin(x)", kind: LeafTrig},
		{name: "tan", input: "tan(x)", want: "-ln(cos(x))", kind: LeafTrig},
		{name: "reciprocal", input: "1/x", want: "ln(x)", kind: LeafLogarithmic},
		{name: "sqrt", input: "sqrt(x)", want: "2/3*x^(3/2)", kind: LeafPower},
		{name: "constant", input: "5", want: "5*x", kind: LeafPower},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anti, rule, err := Integrate(mustParse(t, tt.input), "x")
			require.NoError(t, err)
			assert.Equal(t, tt.want, anti.String())

			leaf, ok := rule.(*LeafRule)
			require.True(t, ok, "expected a leaf rule, got %T", rule)
			assert.Equal(t, tt.kind, leaf.Kind)
		})
	}
}

func TestIntegrateUnsupported(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "gaussian", input: "exp(x^2)"},
		{name: "trig product", input: "sin(x)*cos(x)"},
		{name: "symbolic exponent", input: "x^y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rule, err := Integrate(mustParse(t, tt.input), "x")
			require.ErrorIs(t, err, ErrUnsupported)
			assert.Nil(t, rule)
		})
	}
}
