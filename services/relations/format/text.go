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
	"fmt"
	"io"
	"strings"

	"github.com/AleutianAI/relations/services/relations"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TextFormatter renders results as bordered terminal tables.
type TextFormatter struct {
	border lipgloss.Border
}

// NewTextFormatter creates a text formatter with rounded table borders.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{border: lipgloss.RoundedBorder()}
}

// NewTextFormatterASCII creates a text formatter that only uses ASCII
// characters for borders.
func NewTextFormatterASCII() *TextFormatter {
	return &TextFormatter{border: lipgloss.ASCIIBorder()}
}

// Format converts the result to a text string.
func (f *TextFormatter) Format(result any) (string, error) {
	var sb strings.Builder
	if err := f.FormatStreaming(result, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Name returns the format name.
func (f *TextFormatter) Name() FormatType {
	return FormatText
}

// FormatStreaming writes text to a writer.
func (f *TextFormatter) FormatStreaming(result any, w io.Writer) error {
	v, err := normalize(result)
	if err != nil {
		return err
	}
	switch r := v.(type) {
	case []relations.RelationSpec:
		return f.formatList(r, w)
	case Detail:
		return f.formatDetail(r, w)
	case relations.EvaluationResult:
		return f.formatResult(r, w)
	case *relations.Report:
		return f.formatReport(r, w)
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedResult, result)
}

func (f *TextFormatter) newTable(headers ...string) *table.Table {
	return table.New().
		Border(f.border).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			return s
		})
}

func (f *TextFormatter) formatList(specs []relations.RelationSpec, w io.Writer) error {
	t := f.newTable("ID", "Name", "Kind", "Terms", "Reference")
	for _, s := range specs {
		t.Row(s.ID, s.Name, s.Kind.Label(), s.Terms.String(), formatReference(s))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func (f *TextFormatter) formatDetail(d Detail, w io.Writer) error {
	s := d.Spec
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n\n", s.ID, s.Name)
	fmt.Fprintf(&sb, "  Kind:        %s\n", s.Kind.Label())
	fmt.Fprintf(&sb, "  Formula:     %s\n", s.Formula)
	if s.Method != "" {
		fmt.Fprintf(&sb, "  Method:      %s\n", s.Method)
	}
	fmt.Fprintf(&sb, "  Description: %s\n", s.Description)
	fmt.Fprintf(&sb, "  Terms:       %s\n", s.Terms)
	if ref, ok := s.ReferenceValue(); ok {
		if s.ReferenceN > 0 {
			fmt.Fprintf(&sb, "  Reference:   %s (n=%d)\n", FormatValue(ref), s.ReferenceN)
		} else {
			fmt.Fprintf(&sb, "  Reference:   %s\n", FormatValue(ref))
		}
	} else {
		sb.WriteString("  Reference:   -\n")
	}
	if v := d.Verification; v != nil {
		status := "verified"
		if !v.Verified {
			status = "MISMATCH"
		}
		fmt.Fprintf(&sb, "  Computed:    %s (n=%d, |diff|=%.2e, %s)\n",
			FormatValue(v.Computed), v.N, v.Diff, status)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *TextFormatter) formatResult(r relations.EvaluationResult, w io.Writer) error {
	var err error
	if r.N == nil {
		_, err = fmt.Fprintf(w, "%s = %s\n", r.RelationID, FormatValue(r.Value))
	} else {
		_, err = fmt.Fprintf(w, "%s(n=%d) = %s\n", r.RelationID, *r.N, FormatValue(r.Value))
	}
	return err
}

func (f *TextFormatter) formatReport(r *relations.Report, w io.Writer) error {
	headers := []string{"ID", "Name"}
	for _, n := range r.TermCounts {
		headers = append(headers, fmt.Sprintf("n=%d", n))
	}
	headers = append(headers, "Delta", "Converged")

	t := f.newTable(headers...)
	for _, row := range r.Rows {
		cells := []string{row.RelationID, row.Name}
		for _, v := range row.Values {
			cells = append(cells, FormatValue(v))
		}
		cells = append(cells, reportDelta(row, len(r.TermCounts)), yesNo(row.Converged))
		t.Row(cells...)
	}

	_, err := fmt.Fprintf(w, "%s\nReport %s  tolerance %g\n", t.String(), r.ID, r.Tolerance)
	return err
}

// reportDelta renders a row's delta, "-" where no delta is defined.
func reportDelta(row relations.ReportRow, columns int) string {
	if !row.Kind.TakesTerms() || columns < 2 {
		return "-"
	}
	return fmt.Sprintf("%.2e", row.Delta)
}
