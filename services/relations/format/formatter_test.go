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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/AleutianAI/relations/services/relations"
	"github.com/google/uuid"
)

// sampleReport creates a small report with a NaN cell.
func sampleReport() *relations.Report {
	return &relations.Report{
		ID:         uuid.MustParse("3f2c8a7e-1d4b-4e6a-9b0c-5d7e8f9a0b1c"),
		CreatedAt:  time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC),
		TermCounts: []int{500, 1000},
		Tolerance:  1e-3,
		Rows: []relations.ReportRow{
			{RelationID: "R1", Name: "Harmonic Exponential Bridge", Kind: relations.KindSeries,
				Values: []float64{0.7047036978, 0.7047036979}, Delta: 1e-10, Converged: true},
			{RelationID: "R3", Name: "Logarithmic Spiral Ratio", Kind: relations.KindClosedForm,
				Values: []float64{0.9194941175, 0.9194941175}, Converged: true},
			{RelationID: "RX", Name: "Broken", Kind: relations.KindSeries,
				Values: []float64{math.NaN(), math.Inf(1)}, Delta: math.NaN()},
		},
	}
}

func intPtr(n int) *int { return &n }

func TestNewFormatRegistry(t *testing.T) {
	r := NewFormatRegistry()

	for _, ft := range []FormatType{FormatText, FormatJSON, FormatMarkdown} {
		f, err := r.GetFormatter(ft)
		if err != nil {
			t.Fatalf("GetFormatter(%s) failed: %v", ft, err)
		}
		if f.Name() != ft {
			t.Errorf("formatter for %s reports name %s", ft, f.Name())
		}
	}

	if _, err := r.GetFormatter("yaml"); !errors.Is(err, ErrFormatNotSupported) {
		t.Errorf("GetFormatter(yaml) error = %v, want %v", err, ErrFormatNotSupported)
	}

	got := r.ListFormats()
	want := []FormatType{FormatJSON, FormatMarkdown, FormatText}
	if len(got) != len(want) {
		t.Fatalf("ListFormats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListFormats()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParseFormatType(t *testing.T) {
	tests := []struct {
		in   string
		want FormatType
	}{
		{"", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{" md ", FormatMarkdown},
		{"markdown", FormatMarkdown},
	}
	for _, tt := range tests {
		got, err := ParseFormatType(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormatType(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseFormatType("csv"); !errors.Is(err, ErrFormatNotSupported) {
		t.Errorf("ParseFormatType(csv) error = %v", err)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.7047036978, "0.7047036978"},
		{-0.11912769234, "-0.1191276923"},
		{1, "1.0000000000"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnsupportedResult(t *testing.T) {
	r := NewFormatRegistry()
	for _, ft := range r.ListFormats() {
		if _, err := r.Format(42, ft); !errors.Is(err, ErrUnsupportedResult) {
			t.Errorf("%s: Format(42) error = %v, want %v", ft, err, ErrUnsupportedResult)
		}
		var nilReport *relations.Report
		if _, err := r.Format(nilReport, ft); !errors.Is(err, ErrUnsupportedResult) {
			t.Errorf("%s: Format(nil report) error = %v", ft, err)
		}
	}
}

// =============================================================================
// Text
// =============================================================================

func TestTextFormatter_List(t *testing.T) {
	out, err := NewTextFormatter().Format(relations.DefaultCatalog().List())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	for _, want := range []string{"R1", "R12", "Harmonic Exponential Bridge", "Closed-form", "[2, 1000]", "0.7047036978"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q", want)
		}
	}
}

func TestTextFormatter_Result(t *testing.T) {
	f := NewTextFormatter()

	out, err := f.Format(relations.EvaluationResult{RelationID: "R1", N: intPtr(500), Value: 0.7047036978, Kind: relations.KindSeries})
	if err != nil {
		t.Fatal(err)
	}
	if out != "R1(n=500) = 0.7047036978\n" {
		t.Errorf("Format() = %q", out)
	}

	out, err = f.Format(&relations.EvaluationResult{RelationID: "R3", Value: 0.9194941175, Kind: relations.KindClosedForm})
	if err != nil {
		t.Fatal(err)
	}
	if out != "R3 = 0.9194941175\n" {
		t.Errorf("Format() = %q", out)
	}
}

func TestTextFormatter_Detail(t *testing.T) {
	spec, _ := relations.DefaultCatalog().Get("R1")
	ver, _, err := relations.Verify(relations.NewEngine(nil), spec)
	if err != nil {
		t.Fatal(err)
	}

	out, err := NewTextFormatterASCII().Format(Detail{Spec: spec, Verification: &ver})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"R1  Harmonic Exponential Bridge", "Reference:   0.7047036978 (n=500)", "verified"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail output missing %q:\n%s", want, out)
		}
	}

	r7, _ := relations.DefaultCatalog().Get("R7")
	out, _ = NewTextFormatter().Format(r7)
	if !strings.Contains(out, "Reference:   -") {
		t.Errorf("R7 should have no reference:\n%s", out)
	}
}

func TestTextFormatter_Report(t *testing.T) {
	out, err := NewTextFormatterASCII().Format(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"n=500", "n=1000", "0.7047036979", "NaN", "+Inf", "3f2c8a7e-1d4b-4e6a-9b0c-5d7e8f9a0b1c"} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}
}

// =============================================================================
// JSON
// =============================================================================

func TestJSONFormatter_Result(t *testing.T) {
	out, err := NewJSONFormatterCompact().Format(relations.EvaluationResult{
		RelationID: "R6", N: intPtr(500), Value: 0.70641313412, Kind: relations.KindSeries,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"relation_id":"R6","n":500,"value":0.7064131341,"kind":"series"}`
	if out != want {
		t.Errorf("Format() = %s, want %s", out, want)
	}
}

func TestJSONFormatter_ClosedFormHasNullN(t *testing.T) {
	out, err := NewJSONFormatterCompact().Format(relations.EvaluationResult{
		RelationID: "R11", Value: -8.3335326615, Kind: relations.KindClosedForm,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"n":null`) || !strings.Contains(out, `"value":-8.3335326615`) {
		t.Errorf("Format() = %s", out)
	}
}

func TestJSONFormatter_ReportNonFinite(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().FormatStreaming(sampleReport(), &buf); err != nil {
		t.Fatalf("FormatStreaming() error = %v", err)
	}

	var decoded struct {
		ID   string `json:"id"`
		Rows []struct {
			RelationID string `json:"relation_id"`
			Values     []any  `json:"values"`
			Delta      any    `json:"delta"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.ID != "3f2c8a7e-1d4b-4e6a-9b0c-5d7e8f9a0b1c" {
		t.Errorf("id = %s", decoded.ID)
	}
	broken := decoded.Rows[2]
	if broken.Values[0] != "NaN" || broken.Values[1] != "+Inf" || broken.Delta != "NaN" {
		t.Errorf("non-finite values = %v, delta = %v", broken.Values, broken.Delta)
	}
	if decoded.Rows[0].Values[0] != 0.7047036978 {
		t.Errorf("finite value = %v", decoded.Rows[0].Values[0])
	}
}

func TestJSONFormatter_List(t *testing.T) {
	out, err := NewJSONFormatter().Format(relations.DefaultCatalog().List())
	if err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 12 {
		t.Fatalf("len = %d, want 12", len(decoded))
	}
	if decoded[2]["terms"] != nil {
		t.Errorf("closed-form R3 terms = %v, want null", decoded[2]["terms"])
	}
	if decoded[6]["reference"] != nil {
		t.Errorf("R7 reference = %v, want null", decoded[6]["reference"])
	}
}

func TestJSONFormatter_DetailWithVerification(t *testing.T) {
	spec, _ := relations.DefaultCatalog().Get("R2")
	ver, _, _ := relations.Verify(relations.NewEngine(nil), spec)

	out, err := NewJSONFormatterCompact().Format(&Detail{Spec: spec, Verification: &ver})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"verified":true`) || !strings.Contains(out, `"id":"R2"`) {
		t.Errorf("Format() = %s", out)
	}
}

// =============================================================================
// Markdown
// =============================================================================

func TestMarkdownFormatter_Report(t *testing.T) {
	batch := relations.NewBatchEvaluator(nil, nil)
	report, err := batch.EvaluateAll(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	out, err := NewMarkdownFormatter().Format(report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "## Convergence Report") {
		t.Errorf("missing heading:\n%s", out)
	}
	if !strings.Contains(out, "| ID | Name | n=500 | n=1000 | Δ | Converged |") {
		t.Errorf("missing header row:\n%s", out)
	}
	rows := 0
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "| R") {
			rows++
		}
	}
	if rows != 12 {
		t.Errorf("rows = %d, want 12", rows)
	}
}

func TestMarkdownFormatter_ListAndResult(t *testing.T) {
	f := NewMarkdownFormatter()

	out, err := f.Format(relations.DefaultCatalog().List())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "| R12 | Weighted Reciprocal Product | Product | [2, 1000] | - |") {
		t.Errorf("list output:\n%s", out)
	}

	out, err = f.Format(relations.EvaluationResult{RelationID: "R8", Value: -0.2069128838, Kind: relations.KindClosedForm})
	if err != nil {
		t.Fatal(err)
	}
	if out != "**R8** (n=-): `-0.2069128838`\n" {
		t.Errorf("result output = %q", out)
	}
}
