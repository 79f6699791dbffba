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
	"fmt"

	"github.com/AleutianAI/relations/pkg/ux"
	"github.com/AleutianAI/relations/services/relations"
	"github.com/AleutianAI/relations/services/relations/format"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "relations",
		Short: "Explore numerical relations between e and π",
		Long: `relations evaluates twelve series, products, integrals and closed forms
built from e and π, compares them against recorded reference values and
shows how each converges as the number of terms grows.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bootstrap(cmd.Context())
		},
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.relations/relations.yaml)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.traceExporter, "trace-exporter", "", "trace exporter: stdout, none")
	pf.StringVar(&a.flags.metricExporter, "metric-exporter", "", "metric exporter: prometheus, stdout, none")
	pf.StringVar(&a.flags.personality, "personality", "", "output style: full, standard, minimal, machine")

	rootCmd.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newEvalCmd(a),
		newTableCmd(a),
		newVerifyCmd(a),
		newTUICmd(a),
	)
	return rootCmd
}

func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "format", "f", "", "output format: text, json, markdown (default from config)")
}

// exactArgs is cobra.ExactArgs with errors classified as usage errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("%s accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return usageError("%s accepts at most %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

// =============================================================================
// list / show
// =============================================================================

func newListCmd(a *app) *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the relations in display order",
		Aliases: []string{"ls"},
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emit(a.catalog.List(), formatName)
		},
	}
	addFormatFlag(cmd, &formatName)
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a relation's formula, method and reference check",
		Example: `  relations show R4
  relations show 11 --format json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := a.catalog.Get(args[0])
			if err != nil {
				return err
			}
			detail := format.Detail{Spec: spec}
			v, ok, err := relations.Verify(a.eval, spec)
			if err != nil {
				return err
			}
			if ok {
				detail.Verification = &v
			}
			return a.emit(detail, formatName)
		},
	}
	addFormatFlag(cmd, &formatName)
	return cmd
}

// =============================================================================
// eval
// =============================================================================

func newEvalCmd(a *app) *cobra.Command {
	var (
		formatName string
		terms      int
	)
	cmd := &cobra.Command{
		Use:   "eval [id]",
		Short: "Evaluate one relation at n terms",
		Long: `Evaluate one relation. n defaults to evaluation.default_terms, clamped to
the relation's range, and is ignored by closed-form relations. Without an
id, an interactive picker is shown when running in a terminal.`,
		Example: `  relations eval R1 -n 1000
  relations eval r12 --format json`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.relationArg(args)
			if err != nil {
				return err
			}
			spec, err := a.catalog.Get(id)
			if err != nil {
				return err
			}

			n := terms
			if !cmd.Flags().Changed("terms") {
				n = spec.Terms.Clamp(a.cfg.Evaluation.DefaultTerms)
			}
			v, err := a.eval.EvaluateContext(cmd.Context(), spec.ID, n)
			if err != nil {
				return err
			}
			return a.emit(relations.NewResult(spec, n, v), formatName)
		},
	}
	addFormatFlag(cmd, &formatName)
	cmd.Flags().IntVarP(&terms, "terms", "n", relations.DefaultTerms, "number of terms")
	return cmd
}

// relationArg returns the id argument, prompting for one when omitted on
// an interactive terminal.
func (a *app) relationArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !a.interactive() {
		return "", usageError("relation id required (R1-R12)")
	}
	return a.selectRelation(a.catalog.List())
}

// =============================================================================
// table
// =============================================================================

func newTableCmd(a *app) *cobra.Command {
	var (
		formatName string
		termCounts []int
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Evaluate every relation at several term counts",
		Long: `Build a convergence report: every relation evaluated at each term count,
with the change between the last two columns and whether it is within
evaluation.tolerance.`,
		Example: `  relations table
  relations table --n 10,100,1000 --format markdown`,
		Aliases: []string{"report"},
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("n") {
				termCounts = a.cfg.Evaluation.TermCounts
			}
			report, err := a.eval.RunBatch(cmd.Context(), a.batch, termCounts)
			if err != nil {
				return err
			}
			return a.emit(report, formatName)
		},
	}
	addFormatFlag(cmd, &formatName)
	cmd.Flags().IntSliceVar(&termCounts, "n", nil, "comma-separated term counts (default from config)")
	return cmd
}

// =============================================================================
// verify
// =============================================================================

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every recorded reference value",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, spec := range a.catalog.List() {
				v, ok, err := relations.Verify(a.eval, spec)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				msg := fmt.Sprintf("%s n=%d computed %s reference %s",
					v.RelationID, v.N, format.FormatValue(v.Computed), format.FormatValue(v.Reference))
				if v.Verified {
					a.printer.Success(msg)
					continue
				}
				failed++
				a.printer.Error(fmt.Sprintf("%s (off by %.2e)", msg, v.Diff))
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d reference(s) outside %g", errVerification, failed, relations.VerifyTolerance)
			}
			a.printer.Tip("run `relations table` to see how each relation converges")
			return nil
		},
	}
}

// =============================================================================
// tui
// =============================================================================

func newTUICmd(a *app) *cobra.Command {
	var initialID string
	cmd := &cobra.Command{
		Use:   "tui [id]",
		Short: "Open the interactive explorer",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				initialID = args[0]
				if _, err := a.catalog.Get(initialID); err != nil {
					return err
				}
			}
			if !a.interactive() {
				return &CommandError{
					Command:  "tui",
					ExitCode: ExitUsage,
					Wrapped:  fmt.Errorf("requires an interactive terminal (personality %s)", ux.GetPersonality().Level),
				}
			}
			return a.runTUI(cmd.Context(), a, initialID)
		},
	}
	return cmd
}
