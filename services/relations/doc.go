// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package relations evaluates a fixed catalog of numeric relations built
// from the constants e and π.
//
// # Description
//
// Each relation is a scalar double-precision computation following one of
// a handful of patterns:
//
//   - series: a running sum over k = 1..n (or 0..n)
//   - product: a running product over k = 1..n (or 2..n)
//   - integral: a midpoint-rule quadrature with n subintervals
//   - closed-form: a direct expression that ignores n
//
// The Catalog is an immutable ordered table of RelationSpec values. The
// Engine evaluates a relation by id and term count. Both are pure: no
// call mutates shared state, so any number of goroutines may evaluate
// concurrently without coordination.
//
// # Usage
//
//	engine := relations.NewEngine(relations.DefaultCatalog())
//	v, err := engine.Evaluate("R1", 500)
//	if errors.Is(err, relations.ErrInvalidArgument) {
//	    // unknown id or n outside the declared range
//	}
//	fmt.Printf("%.10f\n", v) // 0.7047036978
//
// # Batch evaluation
//
// BatchEvaluator evaluates every catalog entry at several term counts and
// reports the convergence delta between the last two, mirroring the
// "compute all relations" table of the explorer.
//
// # Thread Safety
//
// Catalog and Engine are safe for concurrent use. Observed is safe for
// concurrent use once constructed.
package relations
