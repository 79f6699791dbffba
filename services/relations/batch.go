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
	"fmt"
	"math"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultTolerance is the convergence threshold for the delta between the
// last two term counts of a report.
const DefaultTolerance = 1e-3

// DefaultTermCounts are the columns of the "compute all" table.
var DefaultTermCounts = []int{500, 1000}

// =============================================================================
// Report
// =============================================================================

// Report is the result of evaluating the whole catalog at several term counts.
type Report struct {
	// ID identifies the report in logs and exported output.
	ID uuid.UUID `json:"id"`

	// CreatedAt is when evaluation started.
	CreatedAt time.Time `json:"created_at"`

	// TermCounts are the evaluated n values, ascending.
	TermCounts []int `json:"term_counts"`

	// Tolerance is the convergence threshold applied to Delta.
	Tolerance float64 `json:"tolerance"`

	// Rows hold one entry per relation in catalog order.
	Rows []ReportRow `json:"rows"`
}

// ReportRow holds one relation's values across the report's term counts.
type ReportRow struct {
	RelationID string `json:"relation_id"`
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`

	// Values[i] is the value at TermCounts[i]. Closed-form relations repeat
	// their single value in every column.
	Values []float64 `json:"values"`

	// Delta is the value at the last term count minus the value at the one
	// before it. Zero for closed-form relations and single-column reports.
	Delta float64 `json:"delta"`

	// Converged reports |Delta| < Tolerance. Always true for closed-form
	// relations; false when the report has a single term-count column.
	Converged bool `json:"converged"`
}

// Row returns the row for a relation id.
func (r *Report) Row(id string) (ReportRow, bool) {
	for _, row := range r.Rows {
		if row.RelationID == id {
			return row, true
		}
	}
	return ReportRow{}, false
}

// =============================================================================
// BatchEvaluator
// =============================================================================

// ContextEvaluator is an Evaluator that can also carry a context, so that
// per-cell spans nest under the batch span.
type ContextEvaluator interface {
	Evaluator
	EvaluateContext(ctx context.Context, id string, n int) (float64, error)
}

// BatchOption configures a BatchEvaluator.
type BatchOption func(*BatchEvaluator)

// WithConcurrency bounds the number of relations evaluated at once.
// Values below 1 are ignored.
func WithConcurrency(limit int) BatchOption {
	return func(b *BatchEvaluator) {
		if limit >= 1 {
			b.limit = limit
		}
	}
}

// WithTolerance sets the convergence threshold. Non-positive values are ignored.
func WithTolerance(tol float64) BatchOption {
	return func(b *BatchEvaluator) {
		if tol > 0 {
			b.tolerance = tol
		}
	}
}

// WithClock overrides the time source used for Report.CreatedAt.
func WithClock(now func() time.Time) BatchOption {
	return func(b *BatchEvaluator) {
		if now != nil {
			b.now = now
		}
	}
}

// BatchEvaluator evaluates every relation of a catalog at several term counts.
//
// # Description
//
// Each relation is an independent pure computation, so rows are evaluated
// concurrently with a bounded errgroup. The first failure cancels the
// remaining work.
//
// # Thread Safety
//
// Safe for concurrent use if the wrapped Evaluator is.
type BatchEvaluator struct {
	catalog   *Catalog
	eval      Evaluator
	limit     int
	tolerance float64
	now       func() time.Time
}

// NewBatchEvaluator creates a BatchEvaluator.
//
// # Inputs
//
//   - catalog: relations to evaluate (nil selects DefaultCatalog())
//   - eval: evaluator used per cell (nil selects NewEngine(catalog))
//   - opts: optional settings
func NewBatchEvaluator(catalog *Catalog, eval Evaluator, opts ...BatchOption) *BatchEvaluator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if eval == nil {
		eval = NewEngine(catalog)
	}
	b := &BatchEvaluator{
		catalog:   catalog,
		eval:      eval,
		limit:     runtime.GOMAXPROCS(0),
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// EvaluateAll evaluates every relation at every term count.
//
// # Inputs
//
//   - ctx: cancels outstanding evaluations
//   - termCounts: n values; sorted and de-duplicated before use. Empty
//     selects DefaultTermCounts.
//
// # Outputs
//
//   - *Report: one row per relation in catalog order
//   - error: wraps ErrInvalidArgument when a term count is rejected by any
//     relation, or the context error on cancellation
func (b *BatchEvaluator) EvaluateAll(ctx context.Context, termCounts []int) (*Report, error) {
	ns := normalizeTermCounts(termCounts)
	for _, n := range ns {
		if n < MinTerms || n > MaxTerms {
			return nil, fmt.Errorf("%w: term count %d outside [%d, %d]", ErrInvalidArgument, n, MinTerms, MaxTerms)
		}
	}

	specs := b.catalog.List()
	report := &Report{
		ID:         uuid.New(),
		CreatedAt:  b.now(),
		TermCounts: ns,
		Tolerance:  b.tolerance,
		Rows:       make([]ReportRow, len(specs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.limit)
	for i, spec := range specs {
		g.Go(func() error {
			row, err := b.evaluateRow(gctx, spec, ns)
			if err != nil {
				return err
			}
			report.Rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (b *BatchEvaluator) evaluateRow(ctx context.Context, spec RelationSpec, ns []int) (ReportRow, error) {
	row := ReportRow{
		RelationID: spec.ID,
		Name:       spec.Name,
		Kind:       spec.Kind,
		Values:     make([]float64, len(ns)),
	}

	if !spec.Kind.TakesTerms() {
		if err := ctx.Err(); err != nil {
			return row, err
		}
		v, err := b.evaluate(ctx, spec.ID, 0)
		if err != nil {
			return row, err
		}
		for i := range row.Values {
			row.Values[i] = v
		}
		row.Converged = true
		return row, nil
	}

	for i, n := range ns {
		if err := ctx.Err(); err != nil {
			return row, err
		}
		v, err := b.evaluate(ctx, spec.ID, n)
		if err != nil {
			return row, err
		}
		row.Values[i] = v
	}
	if len(ns) >= 2 {
		row.Delta = row.Values[len(ns)-1] - row.Values[len(ns)-2]
		row.Converged = math.Abs(row.Delta) < b.tolerance
	}
	return row, nil
}

func (b *BatchEvaluator) evaluate(ctx context.Context, id string, n int) (float64, error) {
	if ce, ok := b.eval.(ContextEvaluator); ok {
		return ce.EvaluateContext(ctx, id, n)
	}
	return b.eval.Evaluate(id, n)
}

func normalizeTermCounts(termCounts []int) []int {
	if len(termCounts) == 0 {
		return slices.Clone(DefaultTermCounts)
	}
	ns := slices.Clone(termCounts)
	slices.Sort(ns)
	return slices.Compact(ns)
}
