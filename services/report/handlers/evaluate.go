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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
	"github.com/AleutianAI/IntegralMaster/services/report/observability"
	"github.com/AleutianAI/IntegralMaster/services/symbolic"
)

// HandleEvaluate returns the handler for POST /v1/integrals/evaluate.
//
// # Description
//
// Binds and validates the evaluation request, computes the definite
// integral with its derivation steps, and returns the assembled report
// content as JSON. The numeric result is always returned when evaluation
// succeeds, independent of whether a later compile succeeds.
//
// # Status Codes
//
//   - 200: report content returned
//   - 400: malformed body, failed validation, or unparseable expression
//   - 422: integrand outside the rule table, or bounds where the
//     antiderivative is not evaluable
func HandleEvaluate(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.EvaluateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			recordRequest(observability.EndpointEvaluate, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			recordRequest(observability.EndpointEvaluate, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		content, err := svc.Evaluate(c.Request.Context(), &req)
		if err != nil {
			recordRequest(observability.EndpointEvaluate, false)
			status, msg := evaluateErrorStatus(err)
			slog.Warn("Evaluation failed",
				slog.String("request_id", req.RequestID),
				slog.String("expression", req.Expression),
				slog.String("error", err.Error()),
			)
			c.JSON(status, gin.H{"error": msg})
			return
		}

		recordRequest(observability.EndpointEvaluate, true)
		c.JSON(http.StatusOK, datatypes.NewEvaluateResponse(req.RequestID, content))
	}
}

// evaluateErrorStatus maps engine errors to HTTP statuses. Parse errors are
// surfaced verbatim; unsupported integrands and unevaluable bounds are
// semantic failures, not client syntax errors.
func evaluateErrorStatus(err error) (int, string) {
	var perr *symbolic.ParseError
	switch {
	case errors.As(err, &perr):
		return http.StatusBadRequest, perr.Error()
	case errors.Is(err, symbolic.ErrUnsupported):
		return http.StatusUnprocessableEntity, "no closed-form antiderivative found for this expression"
	case errors.Is(err, symbolic.ErrNotEvaluable):
		return http.StatusUnprocessableEntity, "antiderivative could not be evaluated at the given bounds"
	default:
		return http.StatusInternalServerError, "evaluation failed"
	}
}
