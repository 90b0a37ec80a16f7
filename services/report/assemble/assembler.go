// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assemble shapes evaluation results and derivation steps into the
// report content consumed by API responses and document compilation.
package assemble

import (
	"strconv"

	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
	"github.com/AleutianAI/IntegralMaster/services/report/derivation"
	"github.com/AleutianAI/IntegralMaster/services/symbolic"
)

// Assembler builds ReportContent values. It performs no numeric computation
// and no I/O; every value it emits is shaped from inputs computed by the
// caller. Safe for concurrent use.
type Assembler struct {
	renderer symbolic.Renderer
}

// NewAssembler returns an Assembler that typesets expressions with r.
func NewAssembler(r symbolic.Renderer) *Assembler {
	return &Assembler{renderer: r}
}

// Assemble combines a completed evaluation with its derivation steps into an
// immutable ReportContent. Markup rendering failures degrade that fragment
// to its plain-text form; assembly itself never fails.
func (a *Assembler) Assemble(ev *symbolic.Evaluation, steps []derivation.Step) datatypes.ReportContent {
	infos := make([]datatypes.StepInfo, len(steps))
	for i, s := range steps {
		infos[i] = datatypes.StepInfo{Text: s.Text, Order: s.Order}
	}
	return datatypes.ReportContent{
		FunctionExpr:         ev.Integrand.String(),
		FunctionMarkup:       a.markup(ev.Integrand),
		AntiderivativeExpr:   ev.Antiderivative.String(),
		AntiderivativeMarkup: a.markup(ev.Antiderivative),
		Steps:                infos,
		Variable:             ev.Variable,
		VariableMarkup:       a.markup(symbolic.Var(ev.Variable)),
		LowerBound:           ev.Lower,
		UpperBound:           ev.Upper,
		FLower:               ev.FLower,
		FUpper:               ev.FUpper,
		FinalResult:          ev.Result,
		FinalResultText:      FormatResult(ev.Result),
	}
}

// markup typesets e, falling back to plain text when rendering fails so one
// bad fragment cannot abort the whole report.
func (a *Assembler) markup(e symbolic.Expr) string {
	out, err := a.renderer.DisplayMarkup(e)
	if err != nil {
		return e.String()
	}
	return out
}

// FormatResult renders a numeric result to the fixed report precision,
// e.g. 8/3 becomes "2.66667".
func FormatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', datatypes.ResultDecimalPlaces, 64)
}
