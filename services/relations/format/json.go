// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package format

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/AleutianAI/relations/services/relations"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{indent: true}
}

// NewJSONFormatterCompact creates a JSON formatter without indentation.
func NewJSONFormatterCompact() *JSONFormatter {
	return &JSONFormatter{indent: false}
}

// Format converts the result to a JSON string without a trailing newline.
func (f *JSONFormatter) Format(result any) (string, error) {
	var sb strings.Builder
	if err := f.FormatStreaming(result, &sb); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// Name returns the format name.
func (f *JSONFormatter) Name() FormatType {
	return FormatJSON
}

// FormatStreaming writes JSON to a writer.
func (f *JSONFormatter) FormatStreaming(result any, w io.Writer) error {
	view, err := jsonView(result)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	if f.indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(view)
}

// Number is a float64 that encodes with Decimals places. NaN and infinities
// encode as the strings "NaN", "+Inf" and "-Inf".
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(FormatValue(v))
	}
	return []byte(FormatValue(v)), nil
}

type jsonSpec struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Kind        relations.Kind   `json:"kind"`
	Formula     string           `json:"formula"`
	Method      string           `json:"method,omitempty"`
	Description string           `json:"description"`
	Reference   *Number          `json:"reference"`
	ReferenceN  int              `json:"reference_n,omitempty"`
	Terms       *relations.Range `json:"terms"`
}

type jsonVerification struct {
	N        int    `json:"n"`
	Computed Number `json:"computed"`
	Diff     Number `json:"diff"`
	Verified bool   `json:"verified"`
}

type jsonDetail struct {
	jsonSpec
	Verification *jsonVerification `json:"verification,omitempty"`
}

type jsonResult struct {
	RelationID string         `json:"relation_id"`
	N          *int           `json:"n"`
	Value      Number         `json:"value"`
	Kind       relations.Kind `json:"kind"`
}

type jsonRow struct {
	RelationID string         `json:"relation_id"`
	Name       string         `json:"name"`
	Kind       relations.Kind `json:"kind"`
	Values     []Number       `json:"values"`
	Delta      Number         `json:"delta"`
	Converged  bool           `json:"converged"`
}

type jsonReport struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	TermCounts []int     `json:"term_counts"`
	Tolerance  float64   `json:"tolerance"`
	Rows       []jsonRow `json:"rows"`
}

func toJSONSpec(s relations.RelationSpec) jsonSpec {
	out := jsonSpec{
		ID:          s.ID,
		Name:        s.Name,
		Kind:        s.Kind,
		Formula:     s.Formula,
		Method:      s.Method,
		Description: s.Description,
		ReferenceN:  s.ReferenceN,
	}
	if v, ok := s.ReferenceValue(); ok {
		n := Number(v)
		out.Reference = &n
	}
	if !s.Terms.IsZero() {
		terms := s.Terms
		out.Terms = &terms
	}
	return out
}

func jsonView(result any) (any, error) {
	v, err := normalize(result)
	if err != nil {
		return nil, err
	}
	switch r := v.(type) {
	case []relations.RelationSpec:
		out := make([]jsonSpec, len(r))
		for i, s := range r {
			out[i] = toJSONSpec(s)
		}
		return out, nil

	case Detail:
		out := jsonDetail{jsonSpec: toJSONSpec(r.Spec)}
		if ver := r.Verification; ver != nil {
			out.Verification = &jsonVerification{
				N:        ver.N,
				Computed: Number(ver.Computed),
				Diff:     Number(ver.Diff),
				Verified: ver.Verified,
			}
		}
		return out, nil

	case relations.EvaluationResult:
		return jsonResult{
			RelationID: r.RelationID,
			N:          r.N,
			Value:      Number(r.Value),
			Kind:       r.Kind,
		}, nil

	case *relations.Report:
		out := jsonReport{
			ID:         r.ID.String(),
			CreatedAt:  r.CreatedAt,
			TermCounts: r.TermCounts,
			Tolerance:  r.Tolerance,
			Rows:       make([]jsonRow, len(r.Rows)),
		}
		for i, row := range r.Rows {
			values := make([]Number, len(row.Values))
			for j, x := range row.Values {
				values[j] = Number(x)
			}
			out.Rows[i] = jsonRow{
				RelationID: row.RelationID,
				Name:       row.Name,
				Kind:       row.Kind,
				Values:     values,
				Delta:      Number(row.Delta),
				Converged:  row.Converged,
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedResult, result)
}
