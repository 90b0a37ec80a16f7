// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package symbolic implements the expression engine consumed by the report
// service: parsing, exact rational arithmetic, differentiation, pattern-based
// antiderivatives with derivation rule trees, and LaTeX rendering.
//
// The engine is deliberately rule-based rather than canonical. It covers the
// elementary table (power, trig, exponential, logarithmic), linearity,
// constant factors, linear substitution, integration by parts for the common
// x*f(x) products, and the sqrt(x^2 - a^2) trigonometric substitution entry.
// Anything outside that table is reported as unsupported rather than guessed.
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// =============================================================================
// Expr Interface
// =============================================================================

// Expr is a symbolic expression node.
//
// Implementations are immutable: every operation returns a new expression.
// All implementations are safe for concurrent use.
type Expr interface {
	// String returns a plain-text rendering, e.g. "x^2 + 1".
	String() string

	// LaTeX returns the typeset form for document embedding.
	LaTeX() string

	// Sub substitutes value for every occurrence of the named variable.
	Sub(name string, value Expr) Expr

	// Diff differentiates with respect to the named variable.
	Diff(name string) Expr

	// Eval numerically evaluates a closed expression. The bool reports
	// whether evaluation succeeded (free variables or domain errors fail).
	Eval() (float64, bool)

	// Simplify returns a lightly normalized form: flattened sums/products,
	// folded rational constants, trivial powers removed.
	Simplify() Expr

	// Equal reports structural equality.
	Equal(other Expr) bool
}

// =============================================================================
// Number — exact rational constant
// =============================================================================

// Number is an exact rational constant backed by math/big.
type Number struct{ val *big.Rat }

// Int returns the integer n as an expression.
func Int(n int64) *Number { return &Number{val: new(big.Rat).SetInt64(n)} }

// Rat returns the exact fraction p/q. Panics if q is zero.
func Rat(p, q int64) *Number {
	if q == 0 {
		panic("symbolic: zero denominator")
	}
	return &Number{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// Float returns the closest rational to f.
func Float(f float64) *Number {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		r = new(big.Rat)
	}
	return &Number{val: r}
}

func (n *Number) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Number) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Number) Sub(string, Expr) Expr { return n }
func (n *Number) Diff(string) Expr      { return Int(0) }
func (n *Number) Eval() (float64, bool) { f, _ := n.val.Float64(); return f, true }
func (n *Number) Simplify() Expr        { return n }

func (n *Number) Equal(other Expr) bool {
	o, ok := other.(*Number)
	return ok && n.val.Cmp(o.val) == 0
}

// Float64 returns the nearest float64 value.
func (n *Number) Float64() float64 { f, _ := n.val.Float64(); return f }

// Sign reports -1, 0 or +1.
func (n *Number) Sign() int { return n.val.Sign() }

// IsZero reports whether the value is exactly zero.
func (n *Number) IsZero() bool { return n.val.Sign() == 0 }

// IsOne reports whether the value is exactly one.
func (n *Number) IsOne() bool { return n.val.Cmp(ratOne) == 0 }

var (
	ratOne    = big.NewRat(1, 1)
	ratNegOne = big.NewRat(-1, 1)
)

func numAdd(a, b *Number) *Number { return &Number{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Number) *Number { return &Number{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Number) *Number    { return &Number{val: new(big.Rat).Neg(a.val)} }
func numInv(a *Number) *Number {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Number{val: new(big.Rat).Inv(a.val)}
}

// =============================================================================
// Variable
// =============================================================================

// Variable is a named symbol.
type Variable struct{ name string }

// Var returns the variable with the given name.
func Var(name string) *Variable { return &Variable{name: name} }

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

func (v *Variable) String() string { return v.name }

// greekNames maps spelled-out variable names to their LaTeX commands.
var greekNames = map[string]string{
	"theta": `\theta`,
	"phi":   `\phi`,
	"alpha": `\alpha`,
	"beta":  `\beta`,
	"tau":   `\tau`,
}

func (v *Variable) LaTeX() string {
	if g, ok := greekNames[v.name]; ok {
		return g
	}
	return v.name
}

func (v *Variable) Sub(name string, value Expr) Expr {
	if v.name == name {
		return value
	}
	return v
}

func (v *Variable) Diff(name string) Expr {
	if v.name == name {
		return Int(1)
	}
	return Int(0)
}

func (v *Variable) Eval() (float64, bool) { return 0, false }
func (v *Variable) Simplify() Expr        { return v }

func (v *Variable) Equal(other Expr) bool {
	o, ok := other.(*Variable)
	return ok && v.name == o.name
}

// =============================================================================
// Sum
// =============================================================================

// Sum is an n-ary sum of terms.
type Sum struct{ terms []Expr }

// Add returns the simplified sum of the given terms.
func Add(terms ...Expr) Expr { return (&Sum{terms: terms}).Simplify() }

// Terms returns the term list. Callers must not mutate it.
func (s *Sum) Terms() []Expr { return s.terms }

func (s *Sum) String() string {
	return joinSigned(s.terms, func(e Expr) string { return e.String() })
}

func (s *Sum) LaTeX() string {
	return joinSigned(s.terms, func(e Expr) string { return e.LaTeX() })
}

// joinSigned joins term renderings with " + ", folding a leading minus into
// a binary " - " so sums read naturally.
func joinSigned(terms []Expr, render func(Expr) string) string {
	var b strings.Builder
	for i, t := range terms {
		part := render(t)
		if i == 0 {
			b.WriteString(part)
			continue
		}
		if rest, ok := strings.CutPrefix(part, "-"); ok {
			b.WriteString(" - ")
			b.WriteString(rest)
		} else {
			b.WriteString(" + ")
			b.WriteString(part)
		}
	}
	return b.String()
}

func (s *Sum) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		out[i] = t.Sub(name, value)
	}
	return Add(out...)
}

func (s *Sum) Diff(name string) Expr {
	out := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		out[i] = t.Diff(name)
	}
	return Add(out...)
}

func (s *Sum) Eval() (float64, bool) {
	total := 0.0
	for _, t := range s.terms {
		f, ok := t.Eval()
		if !ok {
			return 0, false
		}
		total += f
	}
	return total, true
}

func (s *Sum) Simplify() Expr {
	var flat []Expr
	acc := Int(0)
	for _, t := range s.terms {
		t = t.Simplify()
		switch v := t.(type) {
		case *Sum:
			// Flatten, keeping nested constants in the accumulator.
			for _, inner := range v.terms {
				if n, ok := inner.(*Number); ok {
					acc = numAdd(acc, n)
				} else {
					flat = append(flat, inner)
				}
			}
		case *Number:
			acc = numAdd(acc, v)
		default:
			flat = append(flat, t)
		}
	}
	if !acc.IsZero() {
		flat = append(flat, acc)
	}
	switch len(flat) {
	case 0:
		return Int(0)
	case 1:
		return flat[0]
	}
	return &Sum{terms: flat}
}

func (s *Sum) Equal(other Expr) bool {
	o, ok := other.(*Sum)
	if !ok || len(s.terms) != len(o.terms) {
		return false
	}
	for i := range s.terms {
		if !s.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

// =============================================================================
// Product
// =============================================================================

// Product is an n-ary product of factors. After Simplify the numeric
// coefficient, if any, is the first factor.
type Product struct{ factors []Expr }

// Mul returns the simplified product of the given factors.
func Mul(factors ...Expr) Expr { return (&Product{factors: factors}).Simplify() }

// Neg returns -e.
func Neg(e Expr) Expr { return Mul(Int(-1), e) }

// Factors returns the factor list. Callers must not mutate it.
func (p *Product) Factors() []Expr { return p.factors }

// splitSign lifts a negative leading coefficient out of the factor list so
// renderers can emit a single leading minus instead of "(-1)*x".
func (p *Product) splitSign() ([]Expr, bool) {
	n, ok := p.factors[0].(*Number)
	if !ok || n.Sign() >= 0 {
		return p.factors, false
	}
	pos := numNeg(n)
	if pos.IsOne() {
		return p.factors[1:], true
	}
	out := make([]Expr, len(p.factors))
	copy(out, p.factors)
	out[0] = pos
	return out, true
}

func (p *Product) String() string {
	factors, neg := p.splitSign()
	parts := make([]string, len(factors))
	for i, f := range factors {
		parts[i] = maybeParen(f, f.String())
	}
	out := strings.Join(parts, "*")
	if neg {
		out = "-" + out
	}
	return out
}

func (p *Product) LaTeX() string {
	factors, neg := p.splitSign()
	parts := make([]string, len(factors))
	for i, f := range factors {
		s := f.LaTeX()
		if needsParens(f) {
			s = `\left(` + s + `\right)`
		}
		parts[i] = s
	}
	out := strings.Join(parts, " ")
	if neg {
		out = "-" + out
	}
	return out
}

func maybeParen(e Expr, s string) string {
	if needsParens(e) {
		return "(" + s + ")"
	}
	return s
}

// needsParens reports whether e must be parenthesized inside a product.
func needsParens(e Expr) bool {
	switch v := e.(type) {
	case *Sum:
		return true
	case *Number:
		return v.Sign() < 0
	}
	return false
}

func (p *Product) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(p.factors))
	for i, f := range p.factors {
		out[i] = f.Sub(name, value)
	}
	return Mul(out...)
}

// Diff applies the product rule pairwise over the factor list.
func (p *Product) Diff(name string) Expr {
	terms := make([]Expr, 0, len(p.factors))
	for i := range p.factors {
		factors := make([]Expr, len(p.factors))
		copy(factors, p.factors)
		factors[i] = p.factors[i].Diff(name)
		terms = append(terms, Mul(factors...))
	}
	return Add(terms...)
}

func (p *Product) Eval() (float64, bool) {
	total := 1.0
	for _, f := range p.factors {
		v, ok := f.Eval()
		if !ok {
			return 0, false
		}
		total *= v
	}
	return total, true
}

func (p *Product) Simplify() Expr {
	var flat []Expr
	coeff := Int(1)
	for _, f := range p.factors {
		f = f.Simplify()
		switch v := f.(type) {
		case *Product:
			// Flatten, folding nested coefficients into the accumulator.
			for _, inner := range v.factors {
				if n, ok := inner.(*Number); ok {
					coeff = numMul(coeff, n)
				} else {
					flat = append(flat, inner)
				}
			}
		case *Number:
			coeff = numMul(coeff, v)
		default:
			flat = append(flat, f)
		}
	}
	if coeff.IsZero() {
		return Int(0)
	}
	if !coeff.IsOne() {
		flat = append([]Expr{coeff}, flat...)
	}
	switch len(flat) {
	case 0:
		return coeff
	case 1:
		return flat[0]
	}
	return &Product{factors: flat}
}

func (p *Product) Equal(other Expr) bool {
	o, ok := other.(*Product)
	if !ok || len(p.factors) != len(o.factors) {
		return false
	}
	for i := range p.factors {
		if !p.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// =============================================================================
// Power
// =============================================================================

// Power is base raised to an exponent.
type Power struct{ base, exp Expr }

// Pow returns the simplified power base^exp.
func Pow(base, exp Expr) Expr { return (&Power{base: base, exp: exp}).Simplify() }

// Base returns the base expression.
func (p *Power) Base() Expr { return p.base }

// Exponent returns the exponent expression.
func (p *Power) Exponent() Expr { return p.exp }

func (p *Power) String() string {
	base := p.base.String()
	switch p.base.(type) {
	case *Sum, *Product, *Power:
		base = "(" + base + ")"
	}
	exp := p.exp.String()
	if _, ok := p.exp.(*Variable); !ok {
		if n, ok := p.exp.(*Number); !ok || !n.val.IsInt() || n.Sign() < 0 {
			exp = "(" + exp + ")"
		}
	}
	return base + "^" + exp
}

func (p *Power) LaTeX() string {
	if n, ok := p.exp.(*Number); ok {
		if n.val.Cmp(ratNegOne) == 0 {
			return fmt.Sprintf(`\frac{1}{%s}`, p.base.LaTeX())
		}
		if n.val.Cmp(big.NewRat(1, 2)) == 0 {
			return fmt.Sprintf(`\sqrt{%s}`, p.base.LaTeX())
		}
	}
	base := p.base.LaTeX()
	switch p.base.(type) {
	case *Sum, *Product, *Power:
		base = `\left(` + base + `\right)`
	}
	return fmt.Sprintf("%s^{%s}", base, p.exp.LaTeX())
}

func (p *Power) Sub(name string, value Expr) Expr {
	return Pow(p.base.Sub(name, value), p.exp.Sub(name, value))
}

// Diff handles the two school cases: constant exponents (power rule with
// chain rule) and constant bases are out of scope for this engine.
func (p *Power) Diff(name string) Expr {
	if n, ok := p.exp.(*Number); ok {
		// d/dx u^n = n*u^(n-1)*u'
		return Mul(n, Pow(p.base, numAdd(n, Int(-1))), p.base.Diff(name))
	}
	// General exponents do not occur in the supported integrand table.
	return Int(0)
}

func (p *Power) Eval() (float64, bool) {
	b, ok := p.base.Eval()
	if !ok {
		return 0, false
	}
	e, ok := p.exp.Eval()
	if !ok {
		return 0, false
	}
	v := math.Pow(b, e)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (p *Power) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()
	if n, ok := exp.(*Number); ok {
		if n.IsZero() {
			return Int(1)
		}
		if n.IsOne() {
			return base
		}
		if bn, ok := base.(*Number); ok && n.val.IsInt() && n.val.Num().IsInt64() {
			// Fold small integer powers of exact rationals.
			switch k := n.val.Num().Int64(); {
			case k > 0 && k <= 16:
				acc := Int(1)
				for i := int64(0); i < k; i++ {
					acc = numMul(acc, bn)
				}
				return acc
			case k < 0 && k >= -16 && !bn.IsZero():
				acc := Int(1)
				for i := int64(0); i < -k; i++ {
					acc = numMul(acc, bn)
				}
				return numInv(acc)
			}
		}
	}
	return &Power{base: base, exp: exp}
}

func (p *Power) Equal(other Expr) bool {
	o, ok := other.(*Power)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

// =============================================================================
// Call — unary function application
// =============================================================================

// Func identifies a supported unary function.
type Func string

const (
	FuncSin  Func = "sin"
	FuncCos  Func = "cos"
	FuncTan  Func = "tan"
	FuncSec  Func = "sec"
	FuncExp  Func = "exp"
	FuncLn   Func = "ln"
	FuncSqrt Func = "sqrt"
)

// knownFuncs is the parser's allowlist of callable names.
var knownFuncs = map[string]Func{
	"sin":  FuncSin,
	"cos":  FuncCos,
	"tan":  FuncTan,
	"sec":  FuncSec,
	"exp":  FuncExp,
	"ln":   FuncLn,
	"log":  FuncLn, // natural log, matching the engine's table
	"sqrt": FuncSqrt,
}

// Call is the application of a unary function to an argument.
type Call struct {
	fn  Func
	arg Expr
}

// Apply returns the simplified application fn(arg).
func Apply(fn Func, arg Expr) Expr { return (&Call{fn: fn, arg: arg}).Simplify() }

// Fn returns the function identifier.
func (c *Call) Fn() Func { return c.fn }

// Arg returns the argument expression.
func (c *Call) Arg() Expr { return c.arg }

func (c *Call) String() string {
	return fmt.Sprintf("%s(%s)", c.fn, c.arg.String())
}

func (c *Call) LaTeX() string {
	arg := c.arg.LaTeX()
	switch c.fn {
	case FuncExp:
		return fmt.Sprintf("e^{%s}", arg)
	case FuncSqrt:
		return fmt.Sprintf(`\sqrt{%s}`, arg)
	case FuncLn:
		return fmt.Sprintf(`\ln\left|%s\right|`, arg)
	default:
		return fmt.Sprintf(`\%s\left(%s\right)`, c.fn, arg)
	}
}

func (c *Call) Sub(name string, value Expr) Expr {
	return Apply(c.fn, c.arg.Sub(name, value))
}

// Diff applies the table derivative with the chain rule.
func (c *Call) Diff(name string) Expr {
	inner := c.arg.Diff(name)
	var outer Expr
	switch c.fn {
	case FuncSin:
		outer = Apply(FuncCos, c.arg)
	case FuncCos:
		outer = Neg(Apply(FuncSin, c.arg))
	case FuncTan:
		outer = Pow(Apply(FuncSec, c.arg), Int(2))
	case FuncSec:
		outer = Mul(Apply(FuncSec, c.arg), Apply(FuncTan, c.arg))
	case FuncExp:
		outer = Apply(FuncExp, c.arg)
	case FuncLn:
		outer = Pow(c.arg, Int(-1))
	case FuncSqrt:
		outer = Mul(Rat(1, 2), Pow(c.arg, Rat(-1, 2)))
	default:
		return Int(0)
	}
	return Mul(outer, inner)
}

func (c *Call) Eval() (float64, bool) {
	a, ok := c.arg.Eval()
	if !ok {
		return 0, false
	}
	var v float64
	switch c.fn {
	case FuncSin:
		v = math.Sin(a)
	case FuncCos:
		v = math.Cos(a)
	case FuncTan:
		v = math.Tan(a)
	case FuncSec:
		v = 1 / math.Cos(a)
	case FuncExp:
		v = math.Exp(a)
	case FuncLn:
		if a <= 0 {
			return 0, false
		}
		v = math.Log(a)
	case FuncSqrt:
		if a < 0 {
			return 0, false
		}
		v = math.Sqrt(a)
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (c *Call) Simplify() Expr {
	arg := c.arg.Simplify()
	if n, ok := arg.(*Number); ok {
		switch c.fn {
		case FuncExp:
			if n.IsZero() {
				return Int(1)
			}
		case FuncLn:
			if n.IsOne() {
				return Int(0)
			}
		case FuncSqrt:
			if root, ok := exactSqrt(n); ok {
				return root
			}
		}
	}
	return &Call{fn: c.fn, arg: arg}
}

// exactSqrt returns the exact rational square root when one exists.
func exactSqrt(n *Number) (*Number, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	num := new(big.Int).Sqrt(n.val.Num())
	den := new(big.Int).Sqrt(n.val.Denom())
	if new(big.Int).Mul(num, num).Cmp(n.val.Num()) != 0 {
		return nil, false
	}
	if new(big.Int).Mul(den, den).Cmp(n.val.Denom()) != 0 {
		return nil, false
	}
	return &Number{val: new(big.Rat).SetFrac(num, den)}, true
}

func (c *Call) Equal(other Expr) bool {
	o, ok := other.(*Call)
	return ok && c.fn == o.fn && c.arg.Equal(o.arg)
}
