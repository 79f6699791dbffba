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

// =============================================================================
// Kind
// =============================================================================

// Kind is the evaluation pattern of a relation.
type Kind string

const (
	// KindSeries is a truncated sum over an index k.
	KindSeries Kind = "series"

	// KindProduct is a truncated product over an index k.
	KindProduct Kind = "product"

	// KindIntegral is a definite integral approximated with n subintervals.
	KindIntegral Kind = "integral"

	// KindClosedForm is a direct expression with no term count.
	KindClosedForm Kind = "closed-form"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// TakesTerms reports whether the kind depends on a term count.
func (k Kind) TakesTerms() bool {
	return k != KindClosedForm
}

// Label returns the capitalized display label used in tables.
func (k Kind) Label() string {
	switch k {
	case KindSeries:
		return "Series"
	case KindProduct:
		return "Product"
	case KindIntegral:
		return "Integral"
	case KindClosedForm:
		return "Closed-form"
	default:
		return "Unknown"
	}
}

// =============================================================================
// Range
// =============================================================================

// Range is an inclusive interval of accepted term counts.
//
// The zero Range is used by closed-form relations and contains nothing.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Contains reports whether n lies in [Min, Max].
func (r Range) Contains(n int) bool {
	if r.IsZero() {
		return false
	}
	return n >= r.Min && n <= r.Max
}

// Clamp pins n into [Min, Max]. A zero range returns n unchanged.
func (r Range) Clamp(n int) int {
	if r.IsZero() {
		return n
	}
	if n < r.Min {
		return r.Min
	}
	if n > r.Max {
		return r.Max
	}
	return n
}

// String renders the range as "[min, max]".
func (r Range) String() string {
	if r.IsZero() {
		return "-"
	}
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// =============================================================================
// RelationSpec
// =============================================================================

// RelationSpec describes one catalog entry.
//
// Specs are immutable values; the catalog hands out copies.
type RelationSpec struct {
	// ID is the stable identifier, "R1" through "R12".
	ID string `json:"id"`

	// Name is the human-readable title.
	Name string `json:"name"`

	// Kind is the evaluation pattern.
	Kind Kind `json:"kind"`

	// Formula is the display form of the relation.
	Formula string `json:"formula"`

	// Method notes how the value is computed.
	Method string `json:"method"`

	// Description is a one-line explanation.
	Description string `json:"description"`

	// Reference is the verified value, or nil for relations without one.
	Reference *float64 `json:"reference,omitempty"`

	// ReferenceN is the term count at which Reference was recorded.
	// Zero for closed-form relations and for limits.
	ReferenceN int `json:"reference_n,omitempty"`

	// Terms is the accepted range of n. Zero for closed-form relations.
	Terms Range `json:"terms"`
}

// HasReference reports whether the spec carries a reference value.
func (s RelationSpec) HasReference() bool {
	return s.Reference != nil
}

// clone copies the spec so the Reference pointer is not shared.
func (s RelationSpec) clone() RelationSpec {
	if s.Reference != nil {
		s.Reference = ref(*s.Reference)
	}
	return s
}

// ReferenceValue returns the reference value and whether it exists.
func (s RelationSpec) ReferenceValue() (float64, bool) {
	if s.Reference == nil {
		return 0, false
	}
	return *s.Reference, true
}

// =============================================================================
// Requests and Results
// =============================================================================

// EvaluationRequest asks for one relation at one term count.
//
// N is ignored for closed-form relations.
type EvaluationRequest struct {
	RelationID string `json:"relation_id"`
	N          int    `json:"n"`
}

// EvaluationResult is the outcome of one evaluation.
//
// N is nil for closed-form relations.
type EvaluationResult struct {
	RelationID string  `json:"relation_id"`
	N          *int    `json:"n,omitempty"`
	Value      float64 `json:"value"`
	Kind       Kind    `json:"kind"`
}
