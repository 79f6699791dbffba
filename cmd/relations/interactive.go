// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AleutianAI/relations/services/relations"
	"github.com/AleutianAI/relations/services/relations/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// promptRelation asks the user to pick a relation.
func promptRelation(specs []relations.RelationSpec) (string, error) {
	options := make([]huh.Option[string], len(specs))
	for i, spec := range specs {
		options[i] = huh.NewOption(fmt.Sprintf("%-4s %s (%s)", spec.ID, spec.Name, spec.Kind.Label()), spec.ID)
	}

	var id string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which relation?").
				Options(options...).
				Value(&id),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", fmt.Errorf("%w: no relation selected", errAborted)
		}
		return "", fmt.Errorf("relation prompt: %w", err)
	}
	return id, nil
}

// runExplorer runs the bubbletea explorer until the user quits.
func runExplorer(ctx context.Context, a *app, initialID string) error {
	model := tui.NewModel(a.catalog, a.eval, tui.Config{
		InitialID:    initialID,
		InitialTerms: a.cfg.Evaluation.DefaultTerms,
		PageStep:     a.cfg.UI.PageStep,
		TermCounts:   a.cfg.Evaluation.TermCounts,
		BatchOptions: a.batchOptions(),
	})

	a.logger.Debug("starting explorer", "initial", initialID)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run explorer: %w", err)
	}
	return nil
}
