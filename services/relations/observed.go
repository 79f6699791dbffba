// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package relations

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/AleutianAI/relations/services/relations/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "relations"

// Observed decorates an Evaluator with spans, metrics and debug logging.
//
// # Description
//
// The wrapped evaluator stays pure; Observed only records what happened.
// With telemetry disabled the global no-op providers are used.
//
// # Thread Safety
//
// Safe for concurrent use if the wrapped Evaluator is.
type Observed struct {
	inner   Evaluator
	catalog *Catalog
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewObserved wraps inner.
//
// # Inputs
//
//   - inner: evaluator to decorate
//   - catalog: used to attach the relation kind to spans (nil: DefaultCatalog())
//   - metrics: may be nil to record spans only
//   - logger: may be nil to use slog.Default()
func NewObserved(inner Evaluator, catalog *Catalog, metrics *telemetry.Metrics, logger *slog.Logger) *Observed {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Observed{
		inner:   inner,
		catalog: catalog,
		metrics: metrics,
		logger:  logger,
	}
}

// Evaluate implements Evaluator.
func (o *Observed) Evaluate(id string, n int) (float64, error) {
	return o.EvaluateContext(context.Background(), id, n)
}

// EvaluateContext evaluates under a "relations.Evaluate" span.
func (o *Observed) EvaluateContext(ctx context.Context, id string, n int) (float64, error) {
	attrs := []attribute.KeyValue{
		attribute.String("relation.id", id),
		attribute.Int("relation.n", n),
	}
	if spec, err := o.catalog.Get(id); err == nil {
		attrs = append(attrs, attribute.String("relation.kind", spec.Kind.String()))
	}
	ctx, span := telemetry.StartSpan(ctx, tracerName, "relations.Evaluate", trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	v, err := o.inner.Evaluate(id, n)
	elapsed := time.Since(start).Seconds()

	logger := telemetry.LoggerWithTrace(ctx, o.logger)
	if err != nil {
		telemetry.RecordError(span, err)
		o.metrics.RecordEvaluation(ctx, id, "error", elapsed)
		o.metrics.RecordError(ctx, errorType(err), "evaluator")
		logger.Debug("evaluation failed", "relation", id, "n", n, "error", err)
		return 0, err
	}
	span.SetAttributes(attribute.Float64("relation.value", v))
	telemetry.SetSpanOK(span)
	o.metrics.RecordEvaluation(ctx, id, "ok", elapsed)
	logger.Debug("evaluated relation", "relation", id, "n", n, "value", v)
	return v, nil
}

// RunBatch runs b.EvaluateAll under a "relations.EvaluateAll" span and
// records batch metrics.
func (o *Observed) RunBatch(ctx context.Context, b *BatchEvaluator, termCounts []int) (*Report, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "relations.EvaluateAll",
		trace.WithAttributes(attribute.IntSlice("relation.term_counts", termCounts)),
	)
	defer span.End()

	start := time.Now()
	report, err := b.EvaluateAll(ctx, termCounts)
	elapsed := time.Since(start).Seconds()

	logger := telemetry.LoggerWithTrace(ctx, o.logger)
	if err != nil {
		telemetry.RecordError(span, err)
		o.metrics.RecordBatch(ctx, "error", elapsed)
		o.metrics.RecordError(ctx, errorType(err), "batch")
		logger.Warn("batch evaluation failed", "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.String("report.id", report.ID.String()))
	telemetry.SetSpanOK(span)
	o.metrics.RecordBatch(ctx, "ok", elapsed)
	logger.Info("batch evaluation complete",
		"report_id", report.ID.String(),
		"rows", len(report.Rows),
		"term_counts", report.TermCounts,
	)
	return report, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

var _ Evaluator = (*Observed)(nil)
var _ ContextEvaluator = (*Observed)(nil)
