// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tui provides the interactive relation explorer.
//
// # Description
//
// One tab per catalog relation shows its formula, description, reference
// value and verification badge. Relations that take a term count get a
// slider for n; the value is recomputed on every selection or slider change.
//
// # Thread Safety
//
// TUI components are designed for single-threaded use within the bubbletea
// event loop. Do not access TUI state from multiple goroutines.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/AleutianAI/relations/services/relations"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Messages
// =============================================================================

// ReportMsg carries a finished convergence table.
type ReportMsg struct {
	Report *relations.Report
	Err    error
}

// =============================================================================
// Config
// =============================================================================

// Config configures the explorer.
type Config struct {
	// InitialID selects the first active relation ("" selects R1).
	InitialID string

	// InitialTerms is the starting slider position.
	InitialTerms int

	// PageStep is how far pgup/pgdn move the slider.
	PageStep int

	// TermCounts are the convergence table columns (nil selects
	// relations.DefaultTermCounts).
	TermCounts []int

	// BatchOptions configure the convergence table evaluator.
	BatchOptions []relations.BatchOption
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		InitialTerms: relations.DefaultTerms,
		PageStep:     50,
	}
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model for the relation explorer.
type Model struct {
	config Config

	specs []relations.RelationSpec
	eval  relations.Evaluator
	batch *relations.BatchEvaluator

	// Verification per relation, computed once. Nil entries have no reference.
	verifications []*relations.Verification

	// Navigation state. n is shared across tabs and clamped per relation.
	active int
	n      int

	// Current evaluation.
	value float64
	err   error

	// Convergence table.
	report        *relations.Report
	reportErr     error
	reportLoading bool
	showReport    bool

	// Widgets.
	keys     keyMap
	help     help.Model
	progress progress.Model
	input    textinput.Model
	editing  bool

	width    int
	height   int
	quitting bool
}

// NewModel creates the explorer model.
//
// # Inputs
//
//   - catalog: relations shown as tabs (nil selects relations.DefaultCatalog())
//   - eval: evaluator used for every value (nil selects relations.NewEngine(catalog))
//   - config: initial selection and slider settings
//
// # Outputs
//
//   - Model: ready-to-use model for tea.NewProgram
func NewModel(catalog *relations.Catalog, eval relations.Evaluator, config Config) Model {
	if catalog == nil {
		catalog = relations.DefaultCatalog()
	}
	if eval == nil {
		eval = relations.NewEngine(catalog)
	}
	if config.PageStep <= 0 {
		config.PageStep = DefaultConfig().PageStep
	}
	if config.InitialTerms == 0 {
		config.InitialTerms = relations.DefaultTerms
	}

	specs := catalog.List()
	verifications := make([]*relations.Verification, len(specs))
	for i, spec := range specs {
		if v, ok, err := relations.Verify(eval, spec); ok && err == nil {
			verifications[i] = &v
		}
	}

	ti := textinput.New()
	ti.Prompt = "n = "
	ti.Placeholder = strconv.Itoa(config.InitialTerms)
	ti.CharLimit = 5
	ti.Width = 8

	m := Model{
		config:        config,
		specs:         specs,
		eval:          eval,
		batch:         relations.NewBatchEvaluator(catalog, eval, config.BatchOptions...),
		verifications: verifications,
		n:             config.InitialTerms,
		keys:          defaultKeyMap(),
		help:          help.New(),
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		input:         ti,
	}
	if config.InitialID != "" {
		if i := catalog.IndexOf(config.InitialID); i >= 0 {
			m.active = i
		}
	}
	m.recompute()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = sliderWidth(msg.Width)
		return m, nil

	case ReportMsg:
		m.reportLoading = false
		m.report = msg.Report
		m.reportErr = msg.Err
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.specs) == 0 {
		return "No relations.\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	if m.showReport {
		b.WriteString(m.renderReport())
	} else {
		b.WriteString(m.renderDetail())
		b.WriteString("\n")
		b.WriteString(m.renderSlider())
		b.WriteString(m.renderValue())
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Key Handling
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Next):
		m.selectRelation((m.active + 1) % len(m.specs))

	case key.Matches(msg, m.keys.Prev):
		m.selectRelation((m.active - 1 + len(m.specs)) % len(m.specs))

	case key.Matches(msg, m.keys.Jump):
		if i, ok := jumpIndex(msg.String()); ok && i < len(m.specs) {
			m.selectRelation(i)
		}

	case key.Matches(msg, m.keys.Up):
		m.moveSlider(1)

	case key.Matches(msg, m.keys.Down):
		m.moveSlider(-1)

	case key.Matches(msg, m.keys.PageUp):
		m.moveSlider(m.config.PageStep)

	case key.Matches(msg, m.keys.PageDown):
		m.moveSlider(-m.config.PageStep)

	case key.Matches(msg, m.keys.Min):
		if spec := m.Active(); spec.Kind.TakesTerms() {
			m.setTerms(spec.Terms.Min)
		}

	case key.Matches(msg, m.keys.Max):
		if spec := m.Active(); spec.Kind.TakesTerms() {
			m.setTerms(spec.Terms.Max)
		}

	case key.Matches(msg, m.keys.Input):
		if m.Active().Kind.TakesTerms() && !m.showReport {
			m.editing = true
			m.input.SetValue("")
			return m, m.input.Focus()
		}

	case key.Matches(msg, m.keys.Report):
		m.showReport = !m.showReport
		if m.showReport && m.report == nil && !m.reportLoading {
			m.reportLoading = true
			return m, m.computeReport()
		}
	}
	return m, nil
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if n, err := strconv.Atoi(strings.TrimSpace(m.input.Value())); err == nil {
			m.setTerms(n)
		}
		m.editing = false
		m.input.Blur()
		return m, nil

	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil

	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// State
// =============================================================================

func (m *Model) selectRelation(i int) {
	if i < 0 || i >= len(m.specs) {
		return
	}
	m.active = i
	m.recompute()
}

func (m *Model) moveSlider(delta int) {
	spec := m.Active()
	if !spec.Kind.TakesTerms() {
		return
	}
	m.setTerms(spec.Terms.Clamp(m.n) + delta)
}

func (m *Model) setTerms(n int) {
	spec := m.Active()
	if !spec.Kind.TakesTerms() {
		return
	}
	m.n = spec.Terms.Clamp(n)
	m.recompute()
}

// recompute evaluates the active relation at the current slider position.
func (m *Model) recompute() {
	spec := m.Active()
	m.value, m.err = m.eval.Evaluate(spec.ID, m.Terms())
}

// computeReport runs the convergence table off the event loop.
func (m Model) computeReport() tea.Cmd {
	batch, termCounts := m.batch, m.config.TermCounts
	return func() tea.Msg {
		report, err := batch.EvaluateAll(context.Background(), termCounts)
		return ReportMsg{Report: report, Err: err}
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Active returns the selected relation.
func (m Model) Active() relations.RelationSpec {
	return m.specs[m.active]
}

// Terms returns the term count the active relation is evaluated at. Zero
// for closed-form relations.
func (m Model) Terms() int {
	spec := m.Active()
	if !spec.Kind.TakesTerms() {
		return 0
	}
	return spec.Terms.Clamp(m.n)
}

// Value returns the last computed value and evaluation error.
func (m Model) Value() (float64, error) {
	return m.value, m.err
}
