// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tui

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/relations/services/relations"
	"github.com/AleutianAI/relations/services/relations/format"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Header and Tabs
// =============================================================================

func (m Model) renderHeader() string {
	title := titleStyle.Render("e/π Relation Explorer")
	count := statsStyle.Render(fmt.Sprintf("  [%d/%d]", m.active+1, len(m.specs)))
	return title + count
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(m.specs))
	for i, spec := range m.specs {
		if i == m.active {
			tabs[i] = activeTabStyle.Render(spec.ID)
		} else {
			tabs[i] = tabStyle.Render(spec.ID)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// =============================================================================
// Detail Panel
// =============================================================================

func (m Model) renderDetail() string {
	spec := m.Active()

	var b strings.Builder
	b.WriteString(nameStyle.Render(fmt.Sprintf("%s: %s", spec.ID, spec.Name)))
	b.WriteString("  ")
	b.WriteString(kindStyle.Render(spec.Kind.Label()))
	b.WriteString("\n\n")
	b.WriteString(formulaStyle.Render(spec.Formula))
	b.WriteString("\n\n")
	b.WriteString(descStyle.Render(spec.Description))
	b.WriteString("\n")
	if spec.Method != "" {
		b.WriteString(descStyle.Render("Method: " + spec.Method))
		b.WriteString("\n")
	}

	if ref, ok := spec.ReferenceValue(); ok {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Reference: "))
		b.WriteString(format.FormatValue(ref))
		b.WriteString("  ")
		b.WriteString(m.renderBadge())
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderBadge() string {
	v := m.verifications[m.active]
	if v == nil {
		return pendingBadge.Render("unchecked")
	}
	if v.Verified {
		return verifiedBadge.Render(fmt.Sprintf("✓ verified at n=%d", v.N))
	}
	return mismatchBadge.Render(fmt.Sprintf("✗ off by %.2e", v.Diff))
}

// =============================================================================
// Slider and Value
// =============================================================================

func (m Model) renderSlider() string {
	spec := m.Active()
	if !spec.Kind.TakesTerms() {
		return ""
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("Number of terms (n): %d", m.Terms())))
	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(m.progress.ViewAs(sliderPercent(spec.Terms, m.Terms())))
	}
	b.WriteString("\n")
	b.WriteString(statsStyle.Render(fmt.Sprintf("%d … %d", spec.Terms.Min, spec.Terms.Max)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderValue() string {
	if m.err != nil {
		return "\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	label := "Computed value"
	if n := m.Terms(); n > 0 {
		label = fmt.Sprintf("Computed value (n = %d)", n)
	}
	return "\n" + labelStyle.Render(label) + "\n" + valueStyle.Render(format.FormatValue(m.value)) + "\n"
}

// =============================================================================
// Convergence Table
// =============================================================================

func (m Model) renderReport() string {
	switch {
	case m.reportLoading:
		return statsStyle.Render("Computing convergence table…") + "\n"
	case m.reportErr != nil:
		return errorStyle.Render("Error: "+m.reportErr.Error()) + "\n"
	case m.report == nil:
		return ""
	}

	out, err := format.NewTextFormatter().Format(m.report)
	if err != nil {
		return errorStyle.Render("Error: "+err.Error()) + "\n"
	}
	return out
}

// =============================================================================
// Helpers
// =============================================================================

func sliderPercent(r relations.Range, n int) float64 {
	if r.Max <= r.Min {
		return 1
	}
	return float64(n-r.Min) / float64(r.Max-r.Min)
}

func sliderWidth(termWidth int) int {
	w := termWidth - 4
	if w > 80 {
		w = 80
	}
	if w < 10 {
		w = 10
	}
	return w
}

// =============================================================================
// Styles
// =============================================================================

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Italic(true)

	formulaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("22")).
			Padding(0, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	verifiedBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Background(lipgloss.Color("22")).
			Padding(0, 1)

	mismatchBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Background(lipgloss.Color("52")).
			Padding(0, 1)

	pendingBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Background(lipgloss.Color("58")).
			Padding(0, 1)
)
