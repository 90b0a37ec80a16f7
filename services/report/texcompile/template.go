// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package texcompile

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
)

// documentTemplate is the fixed report layout: integral statement, itemized
// derivation steps, antiderivative, boundary evaluations, final result.
// Markup fields are embedded verbatim in math mode; step text is escaped.
const documentTemplate = `\documentclass{article}
\usepackage{amsmath}
\usepackage{amssymb}
\begin{document}

\begin{center}
\Large \textbf{Step-by-Step Integral Evaluation}
\end{center}

\vspace{0.5em}
\noindent
\textbf{Problem:}
\[
\int_{{"{"}}{{.Lower}}{{"}"}}^{{"{"}}{{.Upper}}{{"}"}} {{.FunctionMarkup}} \, d{{.Variable}}
\]

\noindent
\textbf{Derivation:}
\begin{enumerate}
{{- range .Steps}}
  \item {{.}}
{{- end}}
\end{enumerate}

\noindent
\textbf{Antiderivative:}
\[
F({{.Variable}}) = {{.AntiderivativeMarkup}}
\]

\noindent
\textbf{Evaluation at the bounds:}
\[
F({{.Upper}}) = {{.FUpper}} \qquad F({{.Lower}}) = {{.FLower}}
\]

\noindent
\textbf{Result:}
\[
\int_{{"{"}}{{.Lower}}{{"}"}}^{{"{"}}{{.Upper}}{{"}"}} {{.FunctionMarkup}} \, d{{.Variable}}
= F({{.Upper}}) - F({{.Lower}}) = {{.Result}}
\]

\end{document}
`

var docTmpl = template.Must(template.New("report").Parse(documentTemplate))

// documentData is the flattened view handed to the template.
type documentData struct {
	FunctionMarkup       string
	AntiderivativeMarkup string
	Variable             string
	Steps                []string
	Lower, Upper         string
	FLower, FUpper       string
	Result               string
}

// RenderDocument serializes report content into one complete LaTeX source
// document.
func RenderDocument(content datatypes.ReportContent) (string, error) {
	steps := make([]string, len(content.Steps))
	for i, s := range content.Steps {
		steps[i] = escapeText(s.Text)
	}
	variable := content.VariableMarkup
	if variable == "" {
		variable = escapeText(content.Variable)
	}
	data := documentData{
		FunctionMarkup:       content.FunctionMarkup,
		AntiderivativeMarkup: content.AntiderivativeMarkup,
		Variable:             variable,
		Steps:                steps,
		Lower:                formatBound(content.LowerBound),
		Upper:                formatBound(content.UpperBound),
		FLower:               formatValue(content.FLower),
		FUpper:               formatValue(content.FUpper),
		Result:               escapeText(content.FinalResultText),
	}
	var b strings.Builder
	if err := docTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatValue renders computed values at the same fixed precision the final
// result text uses, so F(2) reads "2.66667" rather than a full float64.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', datatypes.ResultDecimalPlaces, 64)
}

// texSpecial maps LaTeX metacharacters to their escaped forms.
var texSpecial = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// escapeText escapes plain text for safe embedding in the document body.
func escapeText(s string) string {
	return texSpecial.Replace(s)
}
