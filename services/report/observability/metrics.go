// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics and instrumentation for the report
// service.
//
// # Description
//
// This package implements Prometheus metrics for monitoring evaluation and
// compilation operations. Metrics include:
//   - Request counters (by endpoint, status)
//   - Evaluation latency histograms
//   - Compile latency histograms and outcome counters
//   - Derivation step counts per report
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "integralmaster"

// Subsystem for report metrics
const reportSubsystem = "report"

// ReportMetrics holds all Prometheus metrics for report operations.
//
// # Fields
//
//   - RequestsTotal: Counter of requests by endpoint and status
//   - EvaluateDurationSeconds: Histogram of evaluation latency
//   - CompileDurationSeconds: Histogram of compile latency by outcome
//   - CompileOutcomesTotal: Counter of compile outcomes by status
//   - StepsPerReport: Histogram of derivation step counts
//
// # Thread Safety
//
// All operations are thread-safe.
type ReportMetrics struct {
	// RequestsTotal counts API requests by endpoint and status.
	// Labels: endpoint (evaluate, compile), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// EvaluateDurationSeconds measures symbolic evaluation latency.
	// Labels: status (success, error)
	EvaluateDurationSeconds *prometheus.HistogramVec

	// CompileDurationSeconds measures external compiler latency.
	// Labels: status (success, toolchain_unavailable, compilation_failed)
	CompileDurationSeconds *prometheus.HistogramVec

	// CompileOutcomesTotal counts compile outcomes by typed status.
	// Labels: status (success, toolchain_unavailable, compilation_failed)
	CompileOutcomesTotal *prometheus.CounterVec

	// StepsPerReport measures the number of derivation steps per report.
	StepsPerReport prometheus.Histogram
}

// DefaultMetrics is the singleton instance of ReportMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *ReportMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once at
// application startup.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *ReportMetrics {
	DefaultMetrics = &ReportMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: reportSubsystem,
				Name:      "requests_total",
				Help:      "Total number of report requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		EvaluateDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: reportSubsystem,
				Name:      "evaluate_duration_seconds",
				Help:      "Symbolic evaluation latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"status"},
		),

		CompileDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: reportSubsystem,
				Name:      "compile_duration_seconds",
				Help:      "External compiler latency in seconds by outcome",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 15.0, 60.0},
			},
			[]string{"status"},
		),

		CompileOutcomesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: reportSubsystem,
				Name:      "compile_outcomes_total",
				Help:      "Total compile outcomes by typed status",
			},
			[]string{"status"},
		),

		StepsPerReport: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: reportSubsystem,
				Name:      "steps_per_report",
				Help:      "Number of derivation steps per assembled report",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Endpoint Names
// =============================================================================

const (
	// EndpointEvaluate is the evaluation endpoint label.
	EndpointEvaluate = "evaluate"

	// EndpointCompile is the compile endpoint label.
	EndpointCompile = "compile"
)
