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
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/IntegralMaster/pkg/ux"
)

// runHealthCommand pings the report service's /health endpoint.
func runHealthCommand(cmd *cobra.Command, args []string) {
	client := &http.Client{Timeout: 5 * time.Second}
	url := serverBaseURL() + "/health"

	resp, err := client.Get(url)
	if err != nil {
		ux.Error(fmt.Sprintf("Report service unreachable at %s: %v", serverBaseURL(), err))
		os.Exit(1)
	}
	defer resp.Body.Close()

	var payload struct {
		Status string `json:"status"`
	}
	if resp.StatusCode != http.StatusOK ||
		json.NewDecoder(resp.Body).Decode(&payload) != nil || payload.Status != "ok" {
		ux.Error(fmt.Sprintf("Report service unhealthy (HTTP %d)", resp.StatusCode))
		os.Exit(1)
	}

	ux.Success(fmt.Sprintf("Report service healthy at %s", serverBaseURL()))
}
