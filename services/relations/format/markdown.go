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
)

// MarkdownFormatter formats results as Markdown tables and lists.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new Markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format converts the result to a Markdown string.
func (f *MarkdownFormatter) Format(result any) (string, error) {
	var sb strings.Builder
	if err := f.FormatStreaming(result, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Name returns the format name.
func (f *MarkdownFormatter) Name() FormatType {
	return FormatMarkdown
}

// FormatStreaming writes Markdown to a writer.
func (f *MarkdownFormatter) FormatStreaming(result any, w io.Writer) error {
	v, err := normalize(result)
	if err != nil {
		return err
	}
	var sb strings.Builder
	switch r := v.(type) {
	case []relations.RelationSpec:
		f.formatList(r, &sb)
	case Detail:
		f.formatDetail(r, &sb)
	case relations.EvaluationResult:
		f.formatResult(r, &sb)
	case *relations.Report:
		f.formatReport(r, &sb)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedResult, result)
	}
	_, err = io.WriteString(w, sb.String())
	return err
}

func (f *MarkdownFormatter) formatList(specs []relations.RelationSpec, w *strings.Builder) {
	fmt.Fprintln(w, "## e/π Relations")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| ID | Name | Kind | Terms | Reference |")
	fmt.Fprintln(w, "|----|------|------|-------|-----------|")
	for _, s := range specs {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			s.ID, escapeCell(s.Name), s.Kind.Label(), s.Terms, formatReference(s))
	}
}

func (f *MarkdownFormatter) formatDetail(d Detail, w *strings.Builder) {
	s := d.Spec
	fmt.Fprintf(w, "## %s: %s\n\n", s.ID, s.Name)
	fmt.Fprintf(w, "`%s`\n\n", s.Formula)
	fmt.Fprintf(w, "%s\n\n", s.Description)
	fmt.Fprintf(w, "- **Kind:** %s\n", s.Kind.Label())
	if s.Method != "" {
		fmt.Fprintf(w, "- **Method:** %s\n", s.Method)
	}
	fmt.Fprintf(w, "- **Terms:** %s\n", s.Terms)
	fmt.Fprintf(w, "- **Reference:** %s\n", formatReference(s))
	if v := d.Verification; v != nil {
		badge := "✅ verified"
		if !v.Verified {
			badge = "❌ mismatch"
		}
		fmt.Fprintf(w, "- **Computed:** %s at n=%d (%s)\n", FormatValue(v.Computed), v.N, badge)
	}
}

func (f *MarkdownFormatter) formatResult(r relations.EvaluationResult, w *strings.Builder) {
	fmt.Fprintf(w, "**%s** (n=%s): `%s`\n", r.RelationID, formatN(r.N), FormatValue(r.Value))
}

func (f *MarkdownFormatter) formatReport(r *relations.Report, w *strings.Builder) {
	fmt.Fprintln(w, "## Convergence Report")
	fmt.Fprintln(w)

	header := []string{"ID", "Name"}
	for _, n := range r.TermCounts {
		header = append(header, fmt.Sprintf("n=%d", n))
	}
	header = append(header, "Δ", "Converged")

	fmt.Fprintf(w, "| %s |\n", strings.Join(header, " | "))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintf(w, "|%s|\n", strings.Join(sep, "|"))

	for _, row := range r.Rows {
		cells := []string{row.RelationID, escapeCell(row.Name)}
		for _, v := range row.Values {
			cells = append(cells, FormatValue(v))
		}
		converged := "⚠️"
		if row.Converged {
			converged = "✅"
		}
		cells = append(cells, reportDelta(row, len(r.TermCounts)), converged)
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "*Report `%s`, tolerance %g.*\n", r.ID, r.Tolerance)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
