// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response structures for the report
// service: definite-integral evaluation and report compilation endpoints.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AleutianAI/IntegralMaster/pkg/validation"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// MaxExpressionBytes is the maximum size of an input expression.
	// Oversized expressions are rejected before parsing.
	MaxExpressionBytes = validation.MaxExpressionLength

	// ResultDecimalPlaces is the fixed precision used for the final numeric
	// result in report output.
	ResultDecimalPlaces = 5
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// reportValidate is the validator instance for report datatypes.
// Initialized in init() with custom validators.
var reportValidate *validator.Validate

func init() {
	reportValidate = validator.New()

	_ = reportValidate.RegisterValidation("integrand", validateIntegrand)
	_ = reportValidate.RegisterValidation("intvar", validateIntVar)
}

// validateIntegrand checks that an expression field passes the character
// allowlist before it reaches the parser or a generated document.
func validateIntegrand(fl validator.FieldLevel) bool {
	return validation.ValidateExpressionText(fl.Field().String()) == nil
}

// validateIntVar checks that a variable name field is a plain identifier.
// Empty is allowed here; EnsureDefaults fills in "x".
func validateIntVar(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true
	}
	return validation.ValidateVariableName(name) == nil
}

// =============================================================================
// Evaluation Request Types
// =============================================================================

// EvaluateRequest represents a definite-integral evaluation request body.
//
// # Description
//
// EvaluateRequest carries the integrand expression and integration bounds
// for the POST /v1/integrals/evaluate and POST /v1/integrals/compile
// endpoints. Every request includes a unique ID and timestamp for audit
// trails and log correlation.
//
// # Fields
//
//   - RequestID: Optional client-supplied identifier (UUID v4); generated
//     server-side when absent.
//   - Timestamp: Optional Unix timestamp in milliseconds (UTC); generated
//     server-side when absent.
//   - Expression: Required. Integrand text, e.g. "x^2" or "x*exp(x)".
//     Limited to the expression character allowlist.
//   - Variable: Optional. Integration variable name. Default: "x".
//   - LowerBound / UpperBound: Bounds of integration. Any finite values are
//     accepted; UpperBound below LowerBound yields a negative result.
//
// # Validation
//
// Uses go-playground/validator:
//   - Expression: required, custom "integrand" allowlist check
//   - Variable: custom "intvar" identifier check (empty allowed)
//   - RequestID: UUID v4 when present
type EvaluateRequest struct {
	RequestID  string  `json:"request_id" validate:"omitempty,uuid4"`
	Timestamp  int64   `json:"timestamp" validate:"gte=0"`
	Expression string  `json:"expression" validate:"required,integrand"`
	Variable   string  `json:"variable" validate:"intvar"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// Validate validates the EvaluateRequest fields.
func (r *EvaluateRequest) Validate() error {
	return reportValidate.Struct(r)
}

// EnsureDefaults populates default values for optional fields.
func (r *EvaluateRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().UnixMilli()
	}
	if r.Variable == "" {
		r.Variable = "x"
	}
}

// =============================================================================
// Report Content Types
// =============================================================================

// StepInfo is one explanation line of a derivation, in display order.
type StepInfo struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// ReportContent is the assembled report for one evaluation.
//
// # Description
//
// ReportContent is a pure value object built once per evaluation request and
// immutable thereafter. Expressions appear twice: as plain text for API
// consumers and as typeset markup for document compilation. All numeric
// values are computed by the caller before assembly.
//
// # Fields
//
//   - FunctionExpr / FunctionMarkup: the integrand, plain and typeset.
//   - AntiderivativeExpr / AntiderivativeMarkup: F, plain and typeset.
//   - Steps: ordered, deduplicated derivation steps.
//   - Variable / VariableMarkup: integration variable name, plain and
//     typeset (e.g. "theta" / "\theta").
//   - LowerBound / UpperBound: bounds of integration.
//   - FLower / FUpper: F evaluated at the bounds.
//   - FinalResult: FUpper - FLower.
//   - FinalResultText: FinalResult formatted to ResultDecimalPlaces.
type ReportContent struct {
	FunctionExpr         string     `json:"function_expr"`
	FunctionMarkup       string     `json:"function_markup"`
	AntiderivativeExpr   string     `json:"antiderivative_expr"`
	AntiderivativeMarkup string     `json:"antiderivative_markup"`
	Steps                []StepInfo `json:"steps"`
	Variable             string     `json:"variable"`
	VariableMarkup       string     `json:"variable_markup"`
	LowerBound           float64    `json:"lower_bound"`
	UpperBound           float64    `json:"upper_bound"`
	FLower               float64    `json:"f_lower"`
	FUpper               float64    `json:"f_upper"`
	FinalResult          float64    `json:"final_result"`
	FinalResultText      string     `json:"final_result_text"`
}

// =============================================================================
// Evaluation Response Types
// =============================================================================

// EvaluateResponse represents the response from an evaluation request.
//
// # Fields
//
//   - ResponseID: Unique identifier for this response (UUID v4).
//   - RequestID: Echo of the request ID for correlation.
//   - Timestamp: Unix timestamp in milliseconds (UTC) of response creation.
//   - Report: The assembled report content.
//   - ProcessingTimeMs: Time taken to process the request in milliseconds.
type EvaluateResponse struct {
	ResponseID       string        `json:"response_id"`
	RequestID        string        `json:"request_id"`
	Timestamp        int64         `json:"timestamp"`
	Report           ReportContent `json:"report"`
	ProcessingTimeMs int64         `json:"processing_time_ms,omitempty"`
}

// NewEvaluateResponse creates an EvaluateResponse with a generated ID and
// timestamp.
func NewEvaluateResponse(requestID string, report ReportContent) *EvaluateResponse {
	return &EvaluateResponse{
		ResponseID: uuid.NewString(),
		RequestID:  requestID,
		Timestamp:  time.Now().UnixMilli(),
		Report:     report,
	}
}
