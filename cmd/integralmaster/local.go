// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"time"

	"github.com/AleutianAI/IntegralMaster/cmd/integralmaster/config"
	"github.com/AleutianAI/IntegralMaster/services/report/assemble"
	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
	"github.com/AleutianAI/IntegralMaster/services/report/derivation"
	"github.com/AleutianAI/IntegralMaster/services/report/texcompile"
	"github.com/AleutianAI/IntegralMaster/services/symbolic"
)

// localEvaluate runs the full evaluation pipeline in-process, without the
// report service. Used by --local for offline work.
func localEvaluate(req datatypes.EvaluateRequest) (datatypes.ReportContent, error) {
	engine := symbolic.NewEngine()

	expr, err := engine.Parse(req.Expression)
	if err != nil {
		return datatypes.ReportContent{}, err
	}
	ev, err := engine.EvaluateDefinite(expr, req.Variable, req.LowerBound, req.UpperBound)
	if err != nil {
		return datatypes.ReportContent{}, err
	}

	synth := derivation.NewSynthesizer()
	steps := derivation.Dedupe(synth.Synthesize(ev.Derivation))
	return assemble.NewAssembler(symbolic.LatexRenderer{}).Assemble(ev, steps), nil
}

// localCompiler builds a Compiler from the config file's compiler section.
func localCompiler() *texcompile.Compiler {
	opts := []texcompile.Option{}
	if cmd := config.Global.Compiler.Command; cmd != "" {
		opts = append(opts, texcompile.WithCommand(cmd))
	}
	if secs := config.Global.Compiler.TimeoutSeconds; secs > 0 {
		opts = append(opts, texcompile.WithTimeout(time.Duration(secs)*time.Second))
	}
	return texcompile.NewCompiler(opts...)
}

// localCompile evaluates and compiles in-process, mapping the artifact to the
// same shape the service endpoints return.
func localCompile(ctx context.Context, req datatypes.EvaluateRequest) ([]byte, *compileFailure, error) {
	content, err := localEvaluate(req)
	if err != nil {
		return nil, nil, err
	}
	art, err := localCompiler().Compile(ctx, content)
	if err != nil {
		return nil, nil, err
	}
	switch art.Status {
	case texcompile.StatusSuccess:
		return art.PDF, nil, nil
	case texcompile.StatusToolchainUnavailable:
		return nil, &compileFailure{
			Error:       "LaTeX toolchain is not installed",
			Remediation: art.Remediation,
			TexSource:   art.Source,
		}, nil
	default:
		return nil, &compileFailure{
			Error:     "LaTeX compilation failed",
			Log:       art.Log,
			TexSource: art.Source,
		}, nil
	}
}
