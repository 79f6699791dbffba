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

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the explorer key bindings. It implements help.KeyMap.
type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Jump     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Min      key.Binding
	Max      key.Binding
	Input    key.Binding
	Report   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l/tab", "next relation"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←/h", "prev relation"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "="),
			key.WithHelp("1-9 0 - =", "jump to R1-R12"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "n + 1"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "n - 1"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "n + 50"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "n - 50"),
		),
		Min: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "min n"),
		),
		Max: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "max n"),
		),
		Input: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "type n"),
		),
		Report: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "convergence table"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Up, k.Down, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Jump},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Min, k.Max, k.Input},
		{k.Report, k.Help, k.Quit},
	}
}

// jumpIndex maps a jump key to a catalog position.
func jumpIndex(s string) (int, bool) {
	switch s {
	case "0":
		return 9, true
	case "-":
		return 10, true
	case "=":
		return 11, true
	}
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1'), true
	}
	return 0, false
}
