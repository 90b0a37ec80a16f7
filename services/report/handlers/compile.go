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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
	"github.com/AleutianAI/IntegralMaster/services/report/observability"
	"github.com/AleutianAI/IntegralMaster/services/report/texcompile"
)

// HandleCompile returns the handler for POST /v1/integrals/compile.
//
// # Description
//
// Evaluates the request like HandleEvaluate, then compiles the assembled
// report with the external LaTeX toolchain. On success the response body is
// the PDF itself. On either typed compile failure the response carries the
// raw LaTeX source so the caller is never left without a document.
//
// # Status Codes
//
//   - 200: application/pdf body
//   - 400 / 422: as for HandleEvaluate
//   - 422: compiler rejected the document (error, log, tex_source)
//   - 503: toolchain not installed (error, remediation, tex_source)
func HandleCompile(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.EvaluateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			recordRequest(observability.EndpointCompile, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			recordRequest(observability.EndpointCompile, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		content, err := svc.Evaluate(c.Request.Context(), &req)
		if err != nil {
			recordRequest(observability.EndpointCompile, false)
			status, msg := evaluateErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}

		art, err := svc.Compile(c.Request.Context(), content)
		if err != nil {
			recordRequest(observability.EndpointCompile, false)
			slog.Error("Compile request failed",
				slog.String("request_id", req.RequestID),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "compilation could not be started"})
			return
		}

		switch art.Status {
		case texcompile.StatusSuccess:
			recordRequest(observability.EndpointCompile, true)
			c.Header("Content-Disposition", `attachment; filename="integral_report.pdf"`)
			c.Data(http.StatusOK, "application/pdf", art.PDF)

		case texcompile.StatusToolchainUnavailable:
			recordRequest(observability.EndpointCompile, false)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":       "LaTeX toolchain is not installed",
				"remediation": art.Remediation,
				"tex_source":  art.Source,
			})

		default:
			recordRequest(observability.EndpointCompile, false)
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "LaTeX compilation failed",
				"log":        art.Log,
				"tex_source": art.Source,
			})
		}
	}
}
