// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package format renders relation catalogs, evaluation results and batch
// reports as text, JSON or Markdown.
package format

import (
	"io"
	"math"
	"strconv"

	"github.com/AleutianAI/relations/services/relations"
)

// FormatType represents the type of output format.
type FormatType string

const (
	// FormatText is aligned terminal tables (default).
	FormatText FormatType = "text"

	// FormatJSON is indented JSON output.
	FormatJSON FormatType = "json"

	// FormatMarkdown is table/list output.
	FormatMarkdown FormatType = "markdown"
)

// Formatter formats explorer results into different output representations.
//
// Supported results are []relations.RelationSpec, relations.RelationSpec,
// Detail, relations.EvaluationResult and *relations.Report (and their
// pointer or value counterparts).
type Formatter interface {
	// Format converts the result to a formatted string.
	Format(result any) (string, error)

	// Name returns the format name.
	Name() FormatType

	// FormatStreaming writes formatted output to a writer.
	FormatStreaming(result any, w io.Writer) error
}

// Detail is a single relation together with its reference check.
type Detail struct {
	Spec relations.RelationSpec

	// Verification is nil when the relation has no reference value.
	Verification *relations.Verification
}

// Decimals is the number of decimal places values are printed with.
const Decimals = 10

// FormatValue renders v with Decimals places. NaN and infinities render as
// "NaN", "+Inf" and "-Inf".
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	default:
		return strconv.FormatFloat(v, 'f', Decimals, 64)
	}
}

// formatReference renders an optional reference value, "-" when absent.
func formatReference(spec relations.RelationSpec) string {
	v, ok := spec.ReferenceValue()
	if !ok {
		return "-"
	}
	return FormatValue(v)
}

// formatN renders an optional term count.
func formatN(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
