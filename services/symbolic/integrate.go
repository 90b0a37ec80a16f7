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
	"math/big"
)

// ErrUnsupported reports that the integrand has no closed form in the
// engine's rule table. Callers surface it as-is; no derivation steps are
// produced for unsupported integrands.
var ErrUnsupported = errors.New("symbolic: no closed-form antiderivative in the rule table")

// Integrate computes an antiderivative of expr with respect to the named
// variable together with the derivation tree describing how it was found.
//
// The returned Rule is nil only when err is non-nil. The constant of
// integration is omitted.
func Integrate(expr Expr, variable string) (Expr, Rule, error) {
	return integrate(expr.Simplify(), variable)
}

func integrate(e Expr, v string) (Expr, Rule, error) {
	switch t := e.(type) {
	case *Number:
		// ∫ c dx = c x (the n=0 case of the power rule).
		return Mul(t, Var(v)), &LeafRule{Kind: LeafPower}, nil

	case *Variable:
		if t.name == v {
			return Mul(Rat(1, 2), Pow(t, Int(2))), &LeafRule{Kind: LeafPower}, nil
		}
		// A free symbol other than the integration variable is a constant.
		return Mul(t, Var(v)), &LeafRule{Kind: LeafPower}, nil

	case *Sum:
		parts := make([]Expr, 0, len(t.terms))
		subs := make([]Rule, 0, len(t.terms))
		for _, term := range t.terms {
			f, r, err := integrate(term, v)
			if err != nil {
				return nil, nil, err
			}
			parts = append(parts, f)
			subs = append(subs, r)
		}
		return Add(parts...), &LinearityRule{Substeps: subs}, nil

	case *Product:
		return integrateProduct(t, v)

	case *Power:
		return integratePower(t, v)

	case *Call:
		return integrateCall(t, v)
	}
	return nil, nil, ErrUnsupported
}

// integrateProduct handles constant factors and the x*f(x) parts patterns.
func integrateProduct(p *Product, v string) (Expr, Rule, error) {
	// Simplify places the numeric coefficient first.
	if c, ok := p.factors[0].(*Number); ok {
		rest := Mul(p.factors[1:]...)
		f, sub, err := integrate(rest, v)
		if err != nil {
			return nil, nil, err
		}
		return Mul(c, f), &ConstantFactorRule{Constant: c, Substep: sub}, nil
	}

	if len(p.factors) == 2 {
		if f, rule, ok := integrateByParts(p.factors[0], p.factors[1], v); ok {
			return f, rule, nil
		}
		if f, rule, ok := integrateByParts(p.factors[1], p.factors[0], v); ok {
			return f, rule, nil
		}
	}
	return nil, nil, ErrUnsupported
}

// integrateByParts matches ∫ x·f(x) dx for f in {exp, sin, cos} with u = x
// and dv = f(x) dx. Both sub-derivations are table lookups.
func integrateByParts(u, dv Expr, v string) (Expr, Rule, bool) {
	x, ok := u.(*Variable)
	if !ok || x.name != v {
		return nil, nil, false
	}
	call, ok := dv.(*Call)
	if !ok {
		return nil, nil, false
	}
	arg, ok := call.arg.(*Variable)
	if !ok || arg.name != v {
		return nil, nil, false
	}
	switch call.fn {
	case FuncExp, FuncSin, FuncCos:
	default:
		return nil, nil, false
	}

	// First sub-derivation: v = ∫ dv.
	vExpr, first, err := integrate(call, v)
	if err != nil {
		return nil, nil, false
	}
	// Second sub-derivation: ∫ v du with du = dx.
	remainder, second, err := integrate(vExpr, v)
	if err != nil {
		return nil, nil, false
	}
	result := Add(Mul(x, vExpr), Neg(remainder))
	rule := &PartsRule{U: x, DV: call, First: first, Second: second}
	return result, rule, true
}

func integratePower(p *Power, v string) (Expr, Rule, error) {
	n, ok := p.exp.(*Number)
	if !ok {
		return nil, nil, ErrUnsupported
	}

	if base, ok := p.base.(*Variable); ok && base.name == v {
		if n.val.Cmp(ratNegOne) == 0 {
			// ∫ x^-1 dx = ln|x|
			return Apply(FuncLn, base), &LeafRule{Kind: LeafLogarithmic}, nil
		}
		next := numAdd(n, Int(1))
		return Mul(numInv(next), Pow(base, next)), &LeafRule{Kind: LeafPower}, nil
	}

	// (a x + b)^n via the linear substitution u = a x + b.
	if a, ok := linearCoefficient(p.base, v); ok {
		return integrateLinearSub(p.base, a, func(u Expr) Expr { return Pow(u, n) }, v)
	}
	return nil, nil, ErrUnsupported
}

func integrateCall(c *Call, v string) (Expr, Rule, error) {
	if arg, ok := c.arg.(*Variable); ok && arg.name == v {
		x := arg
		switch c.fn {
		case FuncExp:
			return Apply(FuncExp, x), &LeafRule{Kind: LeafExponential}, nil
		case FuncSin:
			return Neg(Apply(FuncCos, x)), &LeafRule{Kind: LeafTrig}, nil
		case FuncCos:
			return Apply(FuncSin, x), &LeafRule{Kind: LeafTrig}, nil
		case FuncTan:
			// ∫ tan x dx = -ln|cos x|
			return Neg(Apply(FuncLn, Apply(FuncCos, x))), &LeafRule{Kind: LeafTrig}, nil
		case FuncSec:
			// ∫ sec x dx = ln|sec x + tan x|
			return Apply(FuncLn, Add(Apply(FuncSec, x), Apply(FuncTan, x))), &LeafRule{Kind: LeafTrig}, nil
		case FuncSqrt:
			// x^(1/2) is the power rule in disguise.
			return Mul(Rat(2, 3), Pow(x, Rat(3, 2))), &LeafRule{Kind: LeafPower}, nil
		case FuncLn:
			return integrateLogByParts(x)
		}
		return nil, nil, ErrUnsupported
	}

	if c.fn == FuncSqrt {
		if f, rule, ok := integrateRadical(c, v); ok {
			return f, rule, nil
		}
	}

	// f(a x + b) via the linear substitution u = a x + b.
	if a, ok := linearCoefficient(c.arg, v); ok {
		return integrateLinearSub(c.arg, a, func(u Expr) Expr { return Apply(c.fn, u) }, v)
	}
	return nil, nil, ErrUnsupported
}

// integrateLogByParts computes ∫ ln x dx = x ln x - x with u = ln x, dv = dx.
// Both sub-derivations (∫ dx and ∫ x * 1/x dx) are power-rule lookups.
func integrateLogByParts(x *Variable) (Expr, Rule, error) {
	result := Add(Mul(x, Apply(FuncLn, x)), Neg(x))
	rule := &PartsRule{
		U:      Apply(FuncLn, x),
		DV:     Int(1),
		First:  &LeafRule{Kind: LeafPower},
		Second: &LeafRule{Kind: LeafPower},
	}
	return result, rule, nil
}

// integrateLinearSub integrates build(u) with respect to a fresh variable u,
// then back-substitutes u = inner and divides by the inner derivative a.
func integrateLinearSub(inner Expr, a *Number, build func(Expr) Expr, v string) (Expr, Rule, error) {
	const fresh = "u"
	u := Var(fresh)
	f, sub, err := integrate(build(u), fresh)
	if err != nil {
		return nil, nil, err
	}
	result := Mul(numInv(a), f.Sub(fresh, inner))
	return result, &SubstitutionRule{NewVar: inner, Substep: sub}, nil
}

// integrateRadical matches ∫ sqrt(x^2 - a^2) dx and applies the secant
// substitution x = a sec(θ):
//
//	∫ sqrt(x^2 - a^2) dx = x sqrt(x^2 - a^2)/2 - (a^2/2) ln|x + sqrt(x^2 - a^2)|
func integrateRadical(c *Call, v string) (Expr, Rule, bool) {
	sum, ok := c.arg.(*Sum)
	if !ok || len(sum.terms) != 2 {
		return nil, nil, false
	}
	var quad *Power
	var offset *Number
	for _, t := range sum.terms {
		switch tt := t.(type) {
		case *Power:
			quad = tt
		case *Number:
			offset = tt
		}
	}
	if quad == nil || offset == nil || offset.Sign() >= 0 {
		return nil, nil, false
	}
	base, ok := quad.base.(*Variable)
	if !ok || base.name != v {
		return nil, nil, false
	}
	if n, ok := quad.exp.(*Number); !ok || n.val.Cmp(big.NewRat(2, 1)) != 0 {
		return nil, nil, false
	}

	aSquared := numNeg(offset)
	x := Var(v)
	radical := Apply(FuncSqrt, c.arg)
	result := Add(
		Mul(Rat(1, 2), x, radical),
		Neg(Mul(numMul(aSquared, Rat(1, 2)), Apply(FuncLn, Add(x, radical)))),
	)
	angle := Mul(Apply(FuncSqrt, aSquared), Apply(FuncSec, Var("theta")))
	rule := &TrigSubstitutionRule{
		AngleVar: angle,
		Substep:  &GenericRule{Label: "Secant Reduction Formula"},
	}
	return result, rule, true
}

// linearCoefficient returns the constant slope a when e is linear in v with
// a != 0 and e is not the bare variable itself.
func linearCoefficient(e Expr, v string) (*Number, bool) {
	if _, bare := e.(*Variable); bare {
		return nil, false
	}
	d := e.Diff(v).Simplify()
	a, ok := d.(*Number)
	if !ok || a.IsZero() {
		return nil, false
	}
	return a, true
}
