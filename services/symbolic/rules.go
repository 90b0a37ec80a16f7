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

// =============================================================================
// DERIVATION RULE TREE
// =============================================================================

// Rule is one node of a derivation tree: which integration technique was
// applied at this point of the antiderivative computation, and which
// sub-derivations it produced.
//
// Rule is a closed tagged union; the variant structs below are the only
// implementations. A nil Rule means no derivation is available ("absent").
//
// Trees are immutable once built and safe to share across requests.
type Rule interface {
	isRule()
}

// LeafKind identifies a terminal table rule with no sub-derivation.
type LeafKind string

const (
	LeafPower       LeafKind = "power"
	LeafTrig        LeafKind = "trig"
	LeafExponential LeafKind = "exponential"
	LeafLogarithmic LeafKind = "logarithmic"
)

// LeafRule is a terminal elementary rule (power/trig/exponential/log).
type LeafRule struct {
	Kind LeafKind
}

// LinearityRule splits an integral of a sum into independent sub-integrals,
// one sub-derivation per term, in term order.
type LinearityRule struct {
	Substeps []Rule
}

// ConstantFactorRule records a multiplicative constant pulled out of the
// integral before recursing into the remaining integrand.
type ConstantFactorRule struct {
	Constant Expr
	Substep  Rule
}

// SubstitutionRule records a change of variable; Substep is the derivation
// of the integral in the new variable.
type SubstitutionRule struct {
	NewVar  Expr
	Substep Rule
}

// TrigSubstitutionRule is the radical-eliminating specialization of
// substitution; AngleVar is the trigonometric substitution expression.
type TrigSubstitutionRule struct {
	AngleVar Expr
	Substep  Rule
}

// PartsRule records an integration by parts: u and dv, the derivation of
// v from dv (First), and the derivation of the remaining integral (Second).
type PartsRule struct {
	U      Expr
	DV     Expr
	First  Rule
	Second Rule
}

// AlternativeRule records that the engine found several valid derivation
// paths. Branches is non-empty; the first branch is the preferred path.
type AlternativeRule struct {
	Branches []Rule
}

// GenericRule covers techniques with no dedicated variant. Label describes
// the technique; Substep may be nil.
type GenericRule struct {
	Label   string
	Substep Rule
}

func (*LeafRule) isRule()             {}
func (*LinearityRule) isRule()        {}
func (*ConstantFactorRule) isRule()   {}
func (*SubstitutionRule) isRule()     {}
func (*TrigSubstitutionRule) isRule() {}
func (*PartsRule) isRule()            {}
func (*AlternativeRule) isRule()      {}
func (*GenericRule) isRule()          {}
