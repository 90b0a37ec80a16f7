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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AleutianAI/IntegralMaster/cmd/integralmaster/config"
	"github.com/AleutianAI/IntegralMaster/services/report/datatypes"
)

// compileFailure is the JSON body the service returns when the LaTeX
// toolchain is missing or rejects the document. TexSource lets the caller
// keep the raw document even when no PDF could be produced.
type compileFailure struct {
	Error       string `json:"error"`
	Remediation string `json:"remediation"`
	Log         string `json:"log"`
	TexSource   string `json:"tex_source"`
}

func newServiceClient() *http.Client {
	timeout := time.Duration(config.Global.Server.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// decodeServiceError extracts the "error" field from a non-200 response body.
func decodeServiceError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("server returned %d: %s", status, payload.Error)
	}
	return fmt.Errorf("server returned %d: %s", status, string(body))
}

// callEvaluate posts the request to /v1/integrals/evaluate.
func callEvaluate(req datatypes.EvaluateRequest) (*datatypes.EvaluateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode the request: %w", err)
	}
	resp, err := newServiceClient().Post(serverBaseURL()+"/v1/integrals/evaluate",
		"application/json", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to call the report service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read the response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeServiceError(resp.StatusCode, body)
	}

	var evalResp datatypes.EvaluateResponse
	if err := json.Unmarshal(body, &evalResp); err != nil {
		return nil, fmt.Errorf("failed to parse the evaluate response: %w", err)
	}
	return &evalResp, nil
}

// callCompile posts the request to /v1/integrals/compile.
//
// On 200 the returned bytes are the PDF. When the service reports a typed
// compile failure (503 toolchain missing, 422 document rejected) the failure
// struct carries the raw LaTeX source as a fallback. Any other outcome is an
// error.
func callCompile(req datatypes.EvaluateRequest) ([]byte, *compileFailure, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode the request: %w", err)
	}
	resp, err := newServiceClient().Post(serverBaseURL()+"/v1/integrals/compile",
		"application/json", bytes.NewBuffer(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to call the report service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read the response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil, nil

	case http.StatusServiceUnavailable, http.StatusUnprocessableEntity:
		var failure compileFailure
		if err := json.Unmarshal(body, &failure); err != nil {
			return nil, nil, decodeServiceError(resp.StatusCode, body)
		}
		if failure.TexSource == "" {
			// 422 without a source is an evaluation error, not a compile one.
			return nil, nil, decodeServiceError(resp.StatusCode, body)
		}
		return nil, &failure, nil

	default:
		return nil, nil, decodeServiceError(resp.StatusCode, body)
	}
}
