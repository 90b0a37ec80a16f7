// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     EvaluateRequest
		wantErr bool
	}{
		{
			name: "valid minimal",
			req:  EvaluateRequest{Expression: "x^2", UpperBound: 2},
		},
		{
			name: "valid with variable and id",
			req: EvaluateRequest{
				RequestID:  uuid.NewString(),
				Expression: "x*exp(x)",
				Variable:   "x",
				LowerBound: -1,
				UpperBound: 1,
			},
		},
		{
			name:    "missing expression",
			req:     EvaluateRequest{UpperBound: 2},
			wantErr: true,
		},
		{
			name:    "shell metacharacters rejected",
			req:     EvaluateRequest{Expression: "x^2; rm -rf /"},
			wantErr: true,
		},
		{
			name:    "tex injection rejected",
			req:     EvaluateRequest{Expression: `\input{/etc/passwd}`},
			wantErr: true,
		},
		{
			name:    "bad variable name",
			req:     EvaluateRequest{Expression: "x^2", Variable: "2x"},
			wantErr: true,
		},
		{
			name:    "malformed request id",
			req:     EvaluateRequest{RequestID: "not-a-uuid", Expression: "x^2"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluateRequestEnsureDefaults(t *testing.T) {
	req := EvaluateRequest{Expression: "x^2", UpperBound: 2}
	req.EnsureDefaults()

	assert.Equal(t, "x", req.Variable)
	assert.NotZero(t, req.Timestamp)
	_, err := uuid.Parse(req.RequestID)
	require.NoError(t, err)

	// Defaults never overwrite supplied values.
	req2 := EvaluateRequest{Expression: "t^2", Variable: "t", RequestID: req.RequestID}
	req2.EnsureDefaults()
	assert.Equal(t, "t", req2.Variable)
	assert.Equal(t, req.RequestID, req2.RequestID)
}

func TestNewEvaluateResponse(t *testing.T) {
	report := ReportContent{FunctionExpr: "x^2", FinalResultText: "2.66667"}
	resp := NewEvaluateResponse("req-1", report)

	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, report, resp.Report)
	assert.NotZero(t, resp.Timestamp)
	_, err := uuid.Parse(resp.ResponseID)
	require.NoError(t, err)
}
