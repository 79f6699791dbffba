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
	"io"
	"strings"

	"github.com/AleutianAI/relations/cmd/relations/config"
	"github.com/AleutianAI/relations/pkg/logging"
	"github.com/AleutianAI/relations/pkg/ux"
	"github.com/AleutianAI/relations/services/relations"
	"github.com/AleutianAI/relations/services/relations/format"
	"github.com/AleutianAI/relations/services/relations/telemetry"
	"go.opentelemetry.io/otel"
)

// globalFlags are the persistent flags shared by every subcommand. Empty
// values keep the config file setting.
type globalFlags struct {
	configPath     string
	logLevel       string
	traceExporter  string
	metricExporter string
	personality    string
}

// app holds everything a subcommand needs. It is built in two steps:
// newApp wires the output streams, bootstrap loads config and telemetry
// once flags are parsed.
type app struct {
	out     io.Writer
	errOut  io.Writer
	printer *ux.Printer
	flags   globalFlags

	cfg     config.RelationsConfig
	logger  *logging.Logger
	catalog *relations.Catalog
	eval    *relations.Observed
	batch   *relations.BatchEvaluator
	formats *format.FormatRegistry

	shutdown func(context.Context) error
	ready    bool // logger is open; close has work to do

	// Overridable in tests.
	interactive    func() bool
	selectRelation func([]relations.RelationSpec) (string, error)
	runTUI         func(context.Context, *app, string) error
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:            out,
		errOut:         errOut,
		printer:        ux.NewPrinter(out, errOut),
		interactive:    ux.IsInteractive,
		selectRelation: promptRelation,
		runTUI:         runExplorer,
	}
}

// bootstrap loads the config, applies flag overrides and initializes
// logging, telemetry and the evaluation stack.
//
// # Inputs
//
//   - ctx: used for telemetry initialization
//
// # Outputs
//
//   - error: config errors wrap config.ErrInvalidConfig, exporter errors
//     wrap telemetry.ErrUnknownExporter
func (a *app) bootstrap(ctx context.Context) error {
	cfg, err := config.LoadFile(a.flags.configPath)
	if err != nil {
		return err
	}
	a.applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	ux.InitPersonality(cfg.UI.Personality)

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "relations",
		JSON:    cfg.Logging.JSON,
		Output:  a.errOut,
	})
	a.ready = true

	tcfg := cfg.Telemetry
	tcfg.ServiceVersion = version
	tcfg.Writer = a.errOut
	shutdown, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		return err
	}
	a.shutdown = shutdown

	metrics, err := telemetry.NewMetrics(otel.Meter("relations"))
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	a.catalog = relations.DefaultCatalog()
	a.eval = relations.NewObserved(relations.NewEngine(a.catalog), a.catalog, metrics, a.logger.Slog())
	a.batch = relations.NewBatchEvaluator(a.catalog, a.eval, a.batchOptions()...)

	a.formats = format.NewFormatRegistry()
	if ux.GetPersonality().Level == ux.PersonalityMachine {
		a.formats.Register(format.FormatText, format.NewTextFormatterASCII())
	}

	a.logger.Debug("bootstrap complete",
		"trace_exporter", tcfg.TraceExporter,
		"metric_exporter", tcfg.MetricExporter,
		"personality", string(ux.GetPersonality().Level),
	)
	return nil
}

func (a *app) applyFlags(cfg *config.RelationsConfig) {
	if a.flags.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(a.flags.logLevel)
	}
	if a.flags.traceExporter != "" {
		cfg.Telemetry.TraceExporter = a.flags.traceExporter
	}
	if a.flags.metricExporter != "" {
		cfg.Telemetry.MetricExporter = a.flags.metricExporter
	}
	if a.flags.personality != "" {
		cfg.UI.Personality = a.flags.personality
	}
}

func (a *app) batchOptions() []relations.BatchOption {
	return []relations.BatchOption{
		relations.WithTolerance(a.cfg.Evaluation.Tolerance),
		relations.WithConcurrency(a.cfg.Evaluation.Concurrency),
	}
}

// close dumps prometheus metrics when that exporter is active, flushes
// telemetry and closes the log file. Safe to call when bootstrap failed.
func (a *app) close(ctx context.Context) error {
	if !a.ready {
		return nil
	}
	a.ready = false

	var errs []error
	if a.cfg.Telemetry.MetricExporter == telemetry.ExporterPrometheus {
		if err := telemetry.WritePrometheus(a.errOut); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown telemetry: %w", err))
		}
	}
	if err := a.logger.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// emit formats v and writes it to stdout with a trailing newline.
func (a *app) emit(v any, formatName string) error {
	ft, err := a.formatType(formatName)
	if err != nil {
		return err
	}
	s, err := a.formats.Format(v, ft)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err = io.WriteString(a.out, s)
	return err
}

// formatType resolves a --format value, falling back to ui.format.
func (a *app) formatType(name string) (format.FormatType, error) {
	if name == "" {
		name = a.cfg.UI.Format
	}
	return format.ParseFormatType(name)
}
