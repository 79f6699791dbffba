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
	"strconv"
	"strings"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// MinTerms is the smallest term count any relation accepts.
	MinTerms = 1

	// MaxTerms is the largest term count any relation accepts.
	MaxTerms = 1000

	// DefaultTerms is the term count the explorer starts with.
	DefaultTerms = 500
)

var defaultTerms = Range{Min: MinTerms, Max: MaxTerms}

func ref(v float64) *float64 { return &v }

// entry pairs a spec with the function that computes it.
type entry struct {
	spec    RelationSpec
	compute formula
}

// builtin is the fixed relation table. Order is display order and numbering.
var builtin = []entry{
	{
		spec: RelationSpec{
			ID:          "R1",
			Name:        "Harmonic Exponential Bridge",
			Kind:        KindSeries,
			Formula:     "∑(k=1 to n) [e^(π/k) - π^(e/k)] / k²",
			Method:      "running sum",
			Description: "A weighted sum mixing exponential and power operations",
			Reference:   ref(0.7047036978),
			ReferenceN:  500,
			Terms:       defaultTerms,
		},
		compute: harmonicExponentialBridge,
	},
	{
		spec: RelationSpec{
			ID:          "R2",
			Name:        "Alternating Nested Transform",
			Kind:        KindProduct,
			Formula:     "∏(k=1 to n) [1 + (-1)^k · (e·π)^(-k)]",
			Method:      "running product",
			Description: "Product of alternating terms with decreasing exponentials",
			Reference:   ref(0.8937202382),
			ReferenceN:  500,
			Terms:       defaultTerms,
		},
		compute: alternatingNestedTransform,
	},
	{
		spec: RelationSpec{
			ID:          "R3",
			Name:        "Logarithmic Spiral Ratio",
			Kind:        KindClosedForm,
			Formula:     "ln(e^π + π^e) / √(e² + π²)",
			Method:      "closed form",
			Description: "Ratio of logarithm of mixed exponentials to Euclidean norm",
			Reference:   ref(0.9194941175),
		},
		compute: logarithmicSpiralRatio,
	},
	{
		spec: RelationSpec{
			ID:          "R4",
			Name:        "Reciprocal Factorial Blend",
			Kind:        KindSeries,
			Formula:     "∑(k=0 to n) [(e^k - π^k) / (k! · (e+π)^k)]",
			Method:      "running sum with incrementally updated factorial",
			Description: "Normalized factorial series with exponential difference",
			// Limit is exp(e/(e+π)) - exp(π/(e+π)).
			Reference:  ref(-0.1191276923),
			ReferenceN: 500,
			Terms:      defaultTerms,
		},
		compute: reciprocalFactorialBlend,
	},
	{
		spec: RelationSpec{
			ID:          "R5",
			Name:        "Sinusoidal-Exponential Mesh",
			Kind:        KindIntegral,
			Formula:     "∫[0 to 1] sin(πx) · e^(-ex) dx",
			Method:      "midpoint rule with n subintervals",
			Description: "Integral blending trigonometric and exponential decay",
			// Exact value is π(1 + e^-e) / (π² + e²).
			Reference: ref(0.1940417208),
			Terms:     defaultTerms,
		},
		compute: sinusoidalExponentialMesh,
	},
	{
		spec: RelationSpec{
			ID:          "R6",
			Name:        "Continued Fraction Hybrid",
			Kind:        KindSeries,
			Formula:     "e / (π + e / (π + e / (π + ...)))",
			Method:      "backward recurrence over n levels",
			Description: "Continued fraction alternating e and π",
			Reference:   ref(0.7064131341),
			ReferenceN:  500,
			Terms:       defaultTerms,
		},
		compute: continuedFractionHybrid,
	},
	{
		spec: RelationSpec{
			ID:          "R7",
			Name:        "Hyperbolic-Circular Dance",
			Kind:        KindSeries,
			Formula:     "∑(k=1 to n) [sinh(e/k) · sin(π/k)] / k",
			Method:      "running sum",
			Description: "Weighted sum of hyperbolic and circular functions",
			Terms:       defaultTerms,
		},
		compute: hyperbolicCircularDance,
	},
	{
		spec: RelationSpec{
			ID:          "R8",
			Name:        "Nested Exponential Quotient",
			Kind:        KindClosedForm,
			Formula:     "[e^(e^(1/π)) - π^(π^(1/e))] / (e·π)",
			Method:      "closed form",
			Description: "Difference of nested exponentials normalized by product",
		},
		compute: nestedExponentialQuotient,
	},
	{
		spec: RelationSpec{
			ID:          "R9",
			Name:        "Exponential-Logarithmic Cascade",
			Kind:        KindSeries,
			Formula:     "∑(k=1 to n) [e^(-k) · ln(kπ)] / k^(3/2)",
			Method:      "running sum",
			Description: "Combines exponential decay with logarithmic growth, weighted by k^(-3/2)",
			Terms:       defaultTerms,
		},
		compute: exponentialLogarithmicCascade,
	},
	{
		spec: RelationSpec{
			ID:          "R10",
			Name:        "Alternating Power Series Blend",
			Kind:        KindSeries,
			Formula:     "∑(k=1 to n) [(-1)^k · (e^k + π^k)] / (k! · k)",
			Method:      "running sum with incrementally updated factorial",
			Description: "Alternating factorial series with mixed exponentials and additional k weighting",
			Terms:       defaultTerms,
		},
		compute: alternatingPowerSeriesBlend,
	},
	{
		spec: RelationSpec{
			ID:          "R11",
			Name:        "Trigonometric-Hyperbolic Quotient",
			Kind:        KindClosedForm,
			Formula:     "[sin(e)·sinh(π) + cos(e)·cosh(π)] / [tan(π/4)·tanh(e/π)]",
			Method:      "closed form",
			Description: "Closed-form expression mixing circular and hyperbolic functions",
		},
		compute: trigonometricHyperbolicQuotient,
	},
	{
		spec: RelationSpec{
			ID:          "R12",
			Name:        "Weighted Reciprocal Product",
			Kind:        KindProduct,
			Formula:     "∏(k=2 to n) [1 - 1/(k^e + k^π)]",
			Method:      "running product",
			Description: "Infinite product with reciprocal powers as exponential bases",
			Terms:       Range{Min: 2, Max: MaxTerms},
		},
		compute: weightedReciprocalProduct,
	},
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog is an immutable ordered table of relations.
//
// # Thread Safety
//
// Catalog has no mutating methods and is safe for concurrent use.
type Catalog struct {
	entries []entry
	index   map[string]int
}

var defaultCatalog = mustCatalog(builtin)

// DefaultCatalog returns the built-in twelve-relation catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func mustCatalog(entries []entry) *Catalog {
	c, err := newCatalog(entries)
	if err != nil {
		panic(fmt.Sprintf("relations: invalid builtin catalog: %v", err))
	}
	return c
}

func newCatalog(entries []entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]entry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)
	for i, en := range c.entries {
		key := strings.ToUpper(en.spec.ID)
		if key == "" {
			return nil, fmt.Errorf("%w: entry %d has empty id", ErrInvalidArgument, i)
		}
		if en.compute == nil {
			return nil, fmt.Errorf("%w: %s has no formula", ErrInvalidArgument, en.spec.ID)
		}
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, en.spec.ID)
		}
		c.index[key] = i
	}
	return c, nil
}

// List returns every relation in display order.
//
// The returned slice is a copy; modifying it does not affect the catalog.
func (c *Catalog) List() []RelationSpec {
	out := make([]RelationSpec, len(c.entries))
	for i, en := range c.entries {
		out[i] = en.spec.clone()
	}
	return out
}

// Len returns the number of relations.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get returns the relation with the given id.
//
// # Inputs
//
//   - id: "R4", "r4" or the 1-based position "4".
//
// # Outputs
//
//   - RelationSpec: the matching spec.
//   - error: ErrNotFound when nothing matches.
func (c *Catalog) Get(id string) (RelationSpec, error) {
	i, ok := c.lookup(id)
	if !ok {
		return RelationSpec{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.entries[i].spec.clone(), nil
}

// At returns the relation at a 0-based display position.
func (c *Catalog) At(i int) (RelationSpec, bool) {
	if i < 0 || i >= len(c.entries) {
		return RelationSpec{}, false
	}
	return c.entries[i].spec.clone(), true
}

// IndexOf returns the 0-based display position of id, or -1.
func (c *Catalog) IndexOf(id string) int {
	i, ok := c.lookup(id)
	if !ok {
		return -1
	}
	return i
}

func (c *Catalog) lookup(id string) (int, bool) {
	key := strings.ToUpper(strings.TrimSpace(id))
	if i, ok := c.index[key]; ok {
		return i, true
	}
	if pos, err := strconv.Atoi(key); err == nil && pos >= 1 && pos <= len(c.entries) {
		return pos - 1, true
	}
	return 0, false
}

func (c *Catalog) formulaAt(i int) formula {
	return c.entries[i].compute
}
