// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/IntegralMaster/services/report/assemble"
	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
	"github.com/AleutianAI/IntegralMaster/services/report/derivation"
	"github.com/AleutianAI/IntegralMaster/services/report/observability"
	"github.com/AleutianAI/IntegralMaster/services/report/texcompile"
	"github.com/AleutianAI/IntegralMaster/services/symbolic"
)

// Create a new tracer
var reportTracer = otel.Tracer("integralmaster.report.handlers")

// Service wires the symbolic engine, step synthesis, assembly, and the
// external compiler behind the HTTP handlers.
//
// Thread Safety: Safe for concurrent use; all collaborators are stateless
// or internally synchronized.
type Service struct {
	engine    *symbolic.Engine
	synth     *derivation.Synthesizer
	assembler *assemble.Assembler
	compiler  *texcompile.Compiler
}

// NewService creates a Service around the given compiler. The remaining
// collaborators have useful zero configurations.
func NewService(compiler *texcompile.Compiler) *Service {
	return &Service{
		engine:    symbolic.NewEngine(),
		synth:     derivation.NewSynthesizer(),
		assembler: assemble.NewAssembler(symbolic.LatexRenderer{}),
		compiler:  compiler,
	}
}

// Evaluate parses the request expression, computes the definite integral,
// synthesizes and deduplicates the derivation steps, and assembles the
// report content.
//
// Errors are the engine's own: *symbolic.ParseError for malformed
// expressions, symbolic.ErrUnsupported for integrands outside the rule
// table, symbolic.ErrNotEvaluable for bad bounds.
func (s *Service) Evaluate(ctx context.Context, req *datatypes.EvaluateRequest) (datatypes.ReportContent, error) {
	_, span := reportTracer.Start(ctx, "report.evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.id", req.RequestID),
		attribute.Int("expression.length", len(req.Expression)),
	)
	start := time.Now()

	expr, err := s.engine.Parse(req.Expression)
	if err != nil {
		recordEvaluate(time.Since(start), false)
		return datatypes.ReportContent{}, err
	}

	ev, err := s.engine.EvaluateDefinite(expr, req.Variable, req.LowerBound, req.UpperBound)
	if err != nil {
		recordEvaluate(time.Since(start), false)
		return datatypes.ReportContent{}, err
	}

	steps := derivation.Dedupe(s.synth.Synthesize(ev.Derivation))
	content := s.assembler.Assemble(ev, steps)

	span.SetAttributes(attribute.Int("steps.count", len(steps)))
	recordEvaluate(time.Since(start), true)
	if m := observability.DefaultMetrics; m != nil {
		m.StepsPerReport.Observe(float64(len(steps)))
	}
	return content, nil
}

// Compile renders content to LaTeX and invokes the external compiler,
// returning the typed artifact.
func (s *Service) Compile(ctx context.Context, content datatypes.ReportContent) (*texcompile.Artifact, error) {
	ctx, span := reportTracer.Start(ctx, "report.compile")
	defer span.End()
	start := time.Now()

	art, err := s.compiler.Compile(ctx, content)
	if err != nil {
		recordCompile(time.Since(start), "error")
		return nil, err
	}

	span.SetAttributes(attribute.String("compile.status", string(art.Status)))
	recordCompile(time.Since(start), string(art.Status))
	return art, nil
}

func recordEvaluate(d time.Duration, ok bool) {
	m := observability.DefaultMetrics
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	m.EvaluateDurationSeconds.WithLabelValues(status).Observe(d.Seconds())
}

func recordCompile(d time.Duration, status string) {
	m := observability.DefaultMetrics
	if m == nil {
		return
	}
	m.CompileDurationSeconds.WithLabelValues(status).Observe(d.Seconds())
	m.CompileOutcomesTotal.WithLabelValues(status).Inc()
}

func recordRequest(endpoint string, ok bool) {
	m := observability.DefaultMetrics
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
}
