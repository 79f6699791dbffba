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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/AleutianAI/relations/services/relations/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return recorder
}

func TestObserved_EvaluateRecordsSpan(t *testing.T) {
	recorder := newRecordingTracer(t)
	metrics, err := telemetry.NewMetrics(otel.Meter("observed_test"))
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewObserved(NewEngine(nil), nil, metrics, logger)

	v, err := obs.Evaluate("R6", 500)
	require.NoError(t, err)
	assert.InDelta(t, 0.7064131341, v, 1e-9)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "relations.Evaluate", spans[0].Name())

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "R6", attrs["relation.id"])
	assert.Equal(t, "500", attrs["relation.n"])
	assert.Equal(t, "series", attrs["relation.kind"])

	assert.Contains(t, logs.String(), "evaluated relation")
	assert.Contains(t, logs.String(), "trace_id=")
}

func TestObserved_EvaluateError(t *testing.T) {
	recorder := newRecordingTracer(t)
	obs := NewObserved(NewEngine(nil), nil, nil, nil)

	_, err := obs.Evaluate("R1", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "Error", spans[0].Status().Code.String())
}

func TestObserved_RunBatchNestsSpans(t *testing.T) {
	recorder := newRecordingTracer(t)
	obs := NewObserved(NewEngine(nil), nil, nil, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	b := NewBatchEvaluator(nil, obs)

	report, err := obs.RunBatch(context.Background(), b, []int{500, 1000})
	require.NoError(t, err)
	require.Len(t, report.Rows, 12)

	var batchSpan sdktrace.ReadOnlySpan
	children := 0
	for _, s := range recorder.Ended() {
		if s.Name() == "relations.EvaluateAll" {
			batchSpan = s
		}
	}
	require.NotNil(t, batchSpan)
	for _, s := range recorder.Ended() {
		if s.Name() == "relations.Evaluate" && s.Parent().SpanID() == batchSpan.SpanContext().SpanID() {
			children++
		}
	}
	assert.Equal(t, 9*2+3, children)
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "not_found", errorType(ErrNotFound))
	assert.Equal(t, "invalid_argument", errorType(ErrInvalidArgument))
	assert.Equal(t, "canceled", errorType(context.Canceled))
	assert.Equal(t, "internal", errorType(errors.New("x")))
}
