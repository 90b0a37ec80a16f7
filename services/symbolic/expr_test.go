// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for expression normalization

package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifyFoldsConstantsAcrossNestedProducts(t *testing.T) {
	x := Var("x")

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{
			name: "coefficients cancel",
			expr: Mul(Int(3), Mul(Rat(1, 3), Pow(x, Int(3)))),
			want: "x^3",
		},
		{
			name: "sign folds into one coefficient",
			expr: Mul(Rat(1, 2), Mul(Int(-1), Apply(FuncCos, x))),
			want: "-1/2*cos(x)",
		},
		{
			name: "deeply nested",
			expr: Mul(Int(2), Mul(Int(3), Mul(Int(5), x))),
			want: "30*x",
		},
		{
			name: "zero annihilates",
			expr: Mul(Int(2), Mul(Int(0), x)),
			want: "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestSimplifyFoldsConstantsAcrossNestedSums(t *testing.T) {
	x := Var("x")

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{
			name: "constants accumulate",
			expr: Add(Int(1), Add(Int(2), x)),
			want: "x + 3",
		},
		{
			name: "constants cancel",
			expr: Add(x, Add(Int(2), Int(-2))),
			want: "x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestSimplifyNestedProductKeepsCoefficientFirst(t *testing.T) {
	x := Var("x")

	out := Mul(Int(2), Mul(Rat(1, 3), Pow(x, Int(2))))
	p, ok := out.(*Product)
	require.True(t, ok, "expected a product, got %T", out)

	n, ok := p.Factors()[0].(*Number)
	require.True(t, ok, "coefficient must be the first factor")
	assert.True(t, n.Equal(Rat(2, 3)))
}
