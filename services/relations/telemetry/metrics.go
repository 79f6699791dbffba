// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics contains the pre-defined metrics for relation evaluation.
//
// Description:
//
//	Counters and histograms for single evaluations and batch reports.
//	All metrics use the "relations_" prefix for consistent naming.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// --- Evaluation Metrics ---

	// EvaluationsTotal counts evaluations by relation and status.
	EvaluationsTotal metric.Int64Counter

	// EvaluationDuration records evaluation duration in seconds.
	EvaluationDuration metric.Float64Histogram

	// --- Batch Metrics ---

	// BatchRunsTotal counts batch report runs by status.
	BatchRunsTotal metric.Int64Counter

	// BatchDuration records batch report duration in seconds.
	BatchDuration metric.Float64Histogram

	// --- Error Metrics ---

	// ErrorsTotal counts errors by type and component.
	ErrorsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
//
// Description:
//
//	Registers all pre-defined metrics with the provided meter.
//	Returns an error if any metric registration fails.
//
// Inputs:
//
//	meter - The OTel meter to use for metric registration.
//
// Outputs:
//
//	*Metrics - The metrics instance with all instruments initialized.
//	error - Non-nil if metric registration fails.
//
// Example:
//
//	metrics, err := telemetry.NewMetrics(otel.Meter("relations"))
//	if err != nil {
//	    return fmt.Errorf("create metrics: %w", err)
//	}
//	metrics.RecordEvaluation(ctx, "R1", "ok", elapsed.Seconds())
//
// Thread Safety: Safe for concurrent use after creation.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	// --- Evaluation Metrics ---
	m.EvaluationsTotal, err = meter.Int64Counter(
		"relations_evaluations_total",
		metric.WithDescription("Total relation evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create evaluations_total: %w", err)
	}

	m.EvaluationDuration, err = meter.Float64Histogram(
		"relations_evaluation_duration_seconds",
		metric.WithDescription("Relation evaluation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1),
	)
	if err != nil {
		return nil, fmt.Errorf("create evaluation_duration: %w", err)
	}

	// --- Batch Metrics ---
	m.BatchRunsTotal, err = meter.Int64Counter(
		"relations_batch_runs_total",
		metric.WithDescription("Total batch report runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create batch_runs_total: %w", err)
	}

	m.BatchDuration, err = meter.Float64Histogram(
		"relations_batch_duration_seconds",
		metric.WithDescription("Batch report duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.001, 0.01, 0.1, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("create batch_duration: %w", err)
	}

	// --- Error Metrics ---
	m.ErrorsTotal, err = meter.Int64Counter(
		"relations_errors_total",
		metric.WithDescription("Total errors by type"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create errors_total: %w", err)
	}

	return m, nil
}

// RecordEvaluation records one evaluation outcome.
//
// Inputs:
//
//	ctx - Context for the metric recording.
//	relationID - The relation that was evaluated.
//	status - "ok" or "error".
//	durationSec - Evaluation duration in seconds.
//
// Thread Safety: Safe for concurrent use.
func (m *Metrics) RecordEvaluation(ctx context.Context, relationID, status string, durationSec float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("relation", relationID),
		attribute.String("status", status),
	)
	m.EvaluationsTotal.Add(ctx, 1, attrs)
	m.EvaluationDuration.Record(ctx, durationSec, attrs)
}

// RecordBatch records one batch report run.
//
// Thread Safety: Safe for concurrent use.
func (m *Metrics) RecordBatch(ctx context.Context, status string, durationSec float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.BatchRunsTotal.Add(ctx, 1, attrs)
	m.BatchDuration.Record(ctx, durationSec, attrs)
}

// RecordError increments the error counter.
//
// Inputs:
//
//	ctx - Context for the metric recording.
//	errorType - Error category (e.g., "invalid_argument", "not_found").
//	component - The component that produced the error.
//
// Thread Safety: Safe for concurrent use.
func (m *Metrics) RecordError(ctx context.Context, errorType, component string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errorType),
		attribute.String("component", component),
	))
}
