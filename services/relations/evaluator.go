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

import "fmt"

// Evaluator computes a relation value by id and term count.
//
// Implementations must return an error wrapping ErrInvalidArgument for an
// unknown id or an out-of-range n on a non-closed-form relation.
type Evaluator interface {
	Evaluate(id string, n int) (float64, error)
}

// Engine is the direct Evaluator over a Catalog.
//
// # Thread Safety
//
// Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates an Engine for the given catalog.
//
// A nil catalog selects DefaultCatalog().
func NewEngine(catalog *Catalog) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Engine{catalog: catalog}
}

// Catalog returns the catalog the engine evaluates.
func (g *Engine) Catalog() *Catalog {
	return g.catalog
}

// Evaluate computes relation id at term count n.
//
// # Description
//
// Closed-form relations ignore n. All other kinds require n to lie in the
// relation's declared range. The computation is a pure function of
// (id, n); repeated calls return bit-identical results.
//
// # Inputs
//
//   - id: relation id ("R1".."R12", case-insensitive, or a 1-based position)
//   - n: term count
//
// # Outputs
//
//   - float64: the computed value
//   - error: wraps ErrInvalidArgument (and ErrNotFound for an unknown id)
func (g *Engine) Evaluate(id string, n int) (float64, error) {
	i, ok := g.catalog.lookup(id)
	if !ok {
		return 0, fmt.Errorf("%w: %w: %q", ErrInvalidArgument, ErrNotFound, id)
	}
	spec := g.catalog.entries[i].spec
	if spec.Kind.TakesTerms() && !spec.Terms.Contains(n) {
		return 0, fmt.Errorf("%w: n=%d outside %s for %s", ErrInvalidArgument, n, spec.Terms, spec.ID)
	}
	return g.catalog.formulaAt(i)(n), nil
}

// EvaluateRequest evaluates a request and packages the result.
//
// The result echoes N only for relations that take a term count.
func (g *Engine) EvaluateRequest(req EvaluationRequest) (EvaluationResult, error) {
	spec, err := g.catalog.Get(req.RelationID)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	v, err := g.Evaluate(spec.ID, req.N)
	if err != nil {
		return EvaluationResult{}, err
	}
	return NewResult(spec, req.N, v), nil
}

// NewResult packages v, computed for spec at term count n. N is set only
// for relations that take a term count.
func NewResult(spec RelationSpec, n int, v float64) EvaluationResult {
	res := EvaluationResult{
		RelationID: spec.ID,
		Value:      v,
		Kind:       spec.Kind,
	}
	if spec.Kind.TakesTerms() {
		res.N = &n
	}
	return res
}

// Compare returns Evaluate(id, n2) - Evaluate(id, n1).
//
// For a convergent relation the delta shrinks as both term counts grow.
func (g *Engine) Compare(id string, n1, n2 int) (float64, error) {
	v1, err := g.Evaluate(id, n1)
	if err != nil {
		return 0, err
	}
	v2, err := g.Evaluate(id, n2)
	if err != nil {
		return 0, err
	}
	return v2 - v1, nil
}

var _ Evaluator = (*Engine)(nil)
