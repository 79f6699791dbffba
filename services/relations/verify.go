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
	"fmt"
	"math"
)

// VerifyTolerance is the largest |computed - reference| accepted as verified.
const VerifyTolerance = 1e-6

// Verification compares a relation's recorded reference with a fresh
// evaluation.
type Verification struct {
	RelationID string  `json:"relation_id"`
	N          int     `json:"n"`
	Reference  float64 `json:"reference"`
	Computed   float64 `json:"computed"`
	Diff       float64 `json:"diff"`
	Verified   bool    `json:"verified"`
}

// VerificationN returns the term count a spec's reference is checked at:
// ReferenceN when recorded, otherwise the largest n the spec accepts.
func VerificationN(spec RelationSpec) int {
	if spec.ReferenceN > 0 {
		return spec.ReferenceN
	}
	return spec.Terms.Clamp(MaxTerms)
}

// Verify evaluates spec with eval and compares the result to its reference.
//
// # Outputs
//
//   - Verification: the comparison; Verified is false when the values differ
//     by VerifyTolerance or more
//   - bool: false when the spec has no reference value
//   - error: any evaluation error
func Verify(eval Evaluator, spec RelationSpec) (Verification, bool, error) {
	want, ok := spec.ReferenceValue()
	if !ok {
		return Verification{}, false, nil
	}
	n := VerificationN(spec)
	got, err := eval.Evaluate(spec.ID, n)
	if err != nil {
		return Verification{}, true, fmt.Errorf("verify %s: %w", spec.ID, err)
	}
	diff := math.Abs(got - want)
	return Verification{
		RelationID: spec.ID,
		N:          n,
		Reference:  want,
		Computed:   got,
		Diff:       diff,
		Verified:   diff < VerifyTolerance,
	}, true, nil
}
