// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package derivation flattens a rule tree from the symbolic engine into the
// ordered, deduplicated explanation steps shown in a report.
package derivation

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/IntegralMaster/services/symbolic"
)

// =============================================================================
// STEP MODEL
// =============================================================================

// Step is one rendered explanation line. Order is the step's position in the
// final sequence, assigned after deduplication.
type Step struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// DirectIntegrationText is emitted when no derivation tree is available or
// the tree yields no steps.
const DirectIntegrationText = "Direct integration via standard antiderivative table."

// UnexplainedText is emitted when walking the tree fails partway; the partial
// sequence is abandoned in favor of this single step.
const UnexplainedText = "Derivation relies on internal algorithms not expressible as elementary rule steps."

// =============================================================================
// SYNTHESIZER
// =============================================================================

// Synthesizer converts rule trees into step sequences. The zero value is
// ready to use and safe for concurrent use.
type Synthesizer struct{}

// NewSynthesizer returns a ready-to-use Synthesizer.
func NewSynthesizer() *Synthesizer { return &Synthesizer{} }

// Synthesize walks tree in pre-order and returns one step per applied
// technique. It is total: a nil tree yields the direct-integration step, and
// any panic while walking (malformed node, rendering failure) yields the
// single unexplained-derivation step instead of an error.
func (s *Synthesizer) Synthesize(tree symbolic.Rule) (steps []Step) {
	defer func() {
		if r := recover(); r != nil {
			steps = []Step{{Text: UnexplainedText, Order: 0}}
		}
	}()

	texts := walk(tree, nil)
	if len(texts) == 0 {
		texts = []string{DirectIntegrationText}
	}
	steps = make([]Step, len(texts))
	for i, t := range texts {
		steps[i] = Step{Text: t, Order: i}
	}
	return steps
}

// walk appends the step texts for node and its children, pre-order.
func walk(node symbolic.Rule, out []string) []string {
	if node == nil {
		return out
	}
	switch n := node.(type) {
	case *symbolic.LeafRule:
		return append(out, leafText(n.Kind))

	case *symbolic.LinearityRule:
		out = append(out, "Linearity of Integration Applied")
		for _, sub := range n.Substeps {
			out = walk(sub, out)
		}
		return out

	case *symbolic.ConstantFactorRule:
		out = append(out, fmt.Sprintf("Constant Factor %s Extracted", n.Constant.String()))
		return walk(n.Substep, out)

	case *symbolic.SubstitutionRule:
		out = append(out, fmt.Sprintf("Substitution Applied: u = %s", n.NewVar.String()))
		return walk(n.Substep, out)

	case *symbolic.TrigSubstitutionRule:
		out = append(out, fmt.Sprintf("Trigonometric Substitution Applied: x = %s", n.AngleVar.String()))
		return walk(n.Substep, out)

	case *symbolic.PartsRule:
		out = append(out, fmt.Sprintf("Integration by Parts: u = %s, dv = %s dx", n.U.String(), n.DV.String()))
		out = walk(n.First, out)
		return walk(n.Second, out)

	case *symbolic.AlternativeRule:
		// Deterministic tie-break: the engine's preferred path is first.
		// Remaining branches are discarded, never rendered.
		if len(n.Branches) == 0 {
			return out
		}
		return walk(n.Branches[0], out)

	case *symbolic.GenericRule:
		out = append(out, fmt.Sprintf("%s Applied", n.Label))
		return walk(n.Substep, out)

	default:
		// Forward compatibility: an unknown variant is treated as generic,
		// labeled with its runtime type name.
		out = append(out, fmt.Sprintf("%s Applied", typeName(node)))
		return out
	}
}

func leafText(kind symbolic.LeafKind) string {
	switch kind {
	case symbolic.LeafPower:
		return "Power Rule Applied"
	case symbolic.LeafTrig:
		return "Trigonometric Rule Applied"
	case symbolic.LeafExponential:
		return "Exponential Rule Applied"
	case symbolic.LeafLogarithmic:
		return "Logarithmic Rule Applied"
	}
	return fmt.Sprintf("%s Rule Applied", kind)
}

// typeName strips the pointer marker and package path from a node's runtime
// type, e.g. "*symbolic.LeafRule" becomes "LeafRule".
func typeName(node symbolic.Rule) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", node), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
