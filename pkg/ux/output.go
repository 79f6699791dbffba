// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux provides styled terminal output for the relations CLI.
//
// Output richness follows the current Personality: "machine" prints plain
// prefixed lines for scripts, the other levels use the lipgloss palette below.
package ux

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Explorer color palette
var (
	ColorIndigo  = lipgloss.Color("#5A56E0") // Primary - titles, active tab
	ColorViolet  = lipgloss.Color("#8E7CC3") // Secondary - subtitles
	ColorEuler   = lipgloss.Color("#2CD7C7") // Highlights, verified values
	ColorSlate   = lipgloss.Color("#5C6B7A") // Muted text, borders
	ColorSuccess = lipgloss.Color("#2ECC71")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	// Text styles
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	// Box styles
	Box        lipgloss.Style
	WarningBox lipgloss.Style
	ErrorBox   lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorIndigo),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorViolet),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorEuler).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorIndigo).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
	IconPi      Icon = "π"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	case IconPi:
		return Styles.Highlight.Render(string(i))
	default:
		return string(i)
	}
}

// =============================================================================
// Printer
// =============================================================================

// Printer writes personality-aware messages. Results go to Out; warnings
// and errors go to Err so they never mix with piped output.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter creates a Printer. Nil writers default to os.Stdout and
// os.Stderr.
func NewPrinter(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{Out: out, Err: errOut}
}

// Title prints a styled title. Suppressed for machine output.
func (p *Printer) Title(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	fmt.Fprintln(p.Out, Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func (p *Printer) Success(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(p.Out, "OK: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(p.Out, "%s %s\n", IconSuccess.Render(), text)
	default:
		fmt.Fprintf(p.Out, "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message
func (p *Printer) Warning(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(p.Err, "WARN: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(p.Err, "%s %s\n", IconWarning.Render(), text)
	default:
		fmt.Fprintf(p.Err, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message
func (p *Printer) Error(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(p.Err, "ERROR: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(p.Err, "%s %s\n", IconError.Render(), text)
	default:
		fmt.Fprintf(p.Err, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Tip prints a muted hint when tips are enabled.
func (p *Printer) Tip(text string) {
	pers := GetPersonality()
	if pers.Level == PersonalityMachine || !pers.ShowTips {
		return
	}
	fmt.Fprintf(p.Err, "%s %s\n", IconPi.Render(), Styles.Muted.Render(text))
}

// Box prints text in a rounded box
func (p *Printer) Box(title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(p.Out, "%s: %s\n", title, content)
		return
	}
	titleLine := Styles.Title.Render(title)
	fmt.Fprintln(p.Out, Styles.Box.Width(60).Render(titleLine+"\n"+content))
}

// Raw writes s to Out unchanged.
func (p *Printer) Raw(s string) {
	io.WriteString(p.Out, s)
}
