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
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEvaluator records how many cells were evaluated.
type countingEvaluator struct {
	inner Evaluator
	calls atomic.Int64
}

func (c *countingEvaluator) Evaluate(id string, n int) (float64, error) {
	c.calls.Add(1)
	return c.inner.Evaluate(id, n)
}

// failingEvaluator fails for one relation.
type failingEvaluator struct {
	failID string
	err    error
}

func (f failingEvaluator) Evaluate(id string, n int) (float64, error) {
	if id == f.failID {
		return 0, f.err
	}
	return NewEngine(nil).Evaluate(id, n)
}

func TestBatchEvaluator_DefaultTable(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	b := NewBatchEvaluator(nil, nil, WithClock(func() time.Time { return fixed }))

	report, err := b.EvaluateAll(context.Background(), nil)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, fixed, report.CreatedAt)
	assert.Equal(t, []int{500, 1000}, report.TermCounts)
	assert.Equal(t, DefaultTolerance, report.Tolerance)
	require.Len(t, report.Rows, 12)

	for i, row := range report.Rows {
		spec, _ := DefaultCatalog().At(i)
		assert.Equal(t, spec.ID, row.RelationID)
		assert.Equal(t, spec.Kind, row.Kind)
		require.Len(t, row.Values, 2)
		assert.True(t, row.Converged, "%s should converge", row.RelationID)
	}

	r1, ok := report.Row("R1")
	require.True(t, ok)
	assert.InDelta(t, 0.7047036978, r1.Values[0], 1e-9)

	r11, ok := report.Row("R11")
	require.True(t, ok)
	assert.Equal(t, r11.Values[0], r11.Values[1])
	assert.Zero(t, r11.Delta)

	_, ok = report.Row("R42")
	assert.False(t, ok)
}

func TestBatchEvaluator_NormalizesTermCounts(t *testing.T) {
	b := NewBatchEvaluator(nil, nil)

	report, err := b.EvaluateAll(context.Background(), []int{1000, 10, 500, 10})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 500, 1000}, report.TermCounts)

	r6, _ := report.Row("R6")
	want, err := NewEngine(nil).Compare("R6", 500, 1000)
	require.NoError(t, err)
	assert.Equal(t, want, r6.Delta)
}

func TestBatchEvaluator_SingleColumnIsNotConverged(t *testing.T) {
	b := NewBatchEvaluator(nil, nil)

	report, err := b.EvaluateAll(context.Background(), []int{500})
	require.NoError(t, err)

	r1, _ := report.Row("R1")
	assert.False(t, r1.Converged)
	assert.Zero(t, r1.Delta)

	r3, _ := report.Row("R3")
	assert.True(t, r3.Converged)
}

func TestBatchEvaluator_ClosedFormEvaluatedOnce(t *testing.T) {
	counter := &countingEvaluator{inner: NewEngine(nil)}
	b := NewBatchEvaluator(nil, counter, WithConcurrency(1))

	_, err := b.EvaluateAll(context.Background(), []int{100, 200, 300})
	require.NoError(t, err)

	// 9 term-taking relations x 3 columns + 3 closed forms x 1.
	assert.Equal(t, int64(9*3+3), counter.calls.Load())
}

func TestBatchEvaluator_RejectsTermCounts(t *testing.T) {
	b := NewBatchEvaluator(nil, nil)

	for _, ns := range [][]int{{0}, {MaxTerms + 1}, {-3, 10}} {
		_, err := b.EvaluateAll(context.Background(), ns)
		assert.ErrorIs(t, err, ErrInvalidArgument, "%v", ns)
	}

	// n=1 is valid globally but below R12's range.
	_, err := b.EvaluateAll(context.Background(), []int{1, 10})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBatchEvaluator_PropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	b := NewBatchEvaluator(nil, failingEvaluator{failID: "R7", err: boom})

	_, err := b.EvaluateAll(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestBatchEvaluator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBatchEvaluator(nil, nil)
	_, err := b.EvaluateAll(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchEvaluator_Options(t *testing.T) {
	b := NewBatchEvaluator(nil, nil, WithConcurrency(0), WithTolerance(-1), WithClock(nil))
	assert.GreaterOrEqual(t, b.limit, 1)
	assert.Equal(t, DefaultTolerance, b.tolerance)
	assert.NotNil(t, b.now)

	b = NewBatchEvaluator(nil, nil, WithConcurrency(3), WithTolerance(1e-9))
	assert.Equal(t, 3, b.limit)
	assert.Equal(t, 1e-9, b.tolerance)

	report, err := b.EvaluateAll(context.Background(), []int{500, 1000})
	require.NoError(t, err)
	r7, _ := report.Row("R7")
	assert.False(t, r7.Converged, "R7 moves by ~1e-5 between 500 and 1000")
}
