// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the relations CLI configuration from
// ~/.relations/relations.yaml.
package config

import (
	"errors"
	"fmt"

	"github.com/AleutianAI/relations/services/relations"
	"github.com/AleutianAI/relations/services/relations/telemetry"
	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
)

// CurrentConfigVersion is written into new config files. Files with a
// different major version are rejected.
const CurrentConfigVersion = "1.0.0"

var (
	// ErrInvalidConfig wraps validator field errors.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnsupportedVersion is returned for a meta.version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported config version")
)

type RelationsConfig struct {
	// Meta: schema version of this file
	Meta MetaConfig `yaml:"meta"`

	// Logging: console level and optional JSON log directory
	Logging LoggingConfig `yaml:"logging"`

	// Telemetry: exporter selection, shared with the telemetry package
	Telemetry telemetry.Config `yaml:"telemetry"`

	// Evaluation: defaults for eval and table
	Evaluation EvaluationConfig `yaml:"evaluation"`

	// UI: output format, personality and TUI settings
	UI UIConfig `yaml:"ui"`
}

type MetaConfig struct {
	Version string `yaml:"version" validate:"required,semver"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Dir   string `yaml:"dir,omitempty"` // e.g. ~/.relations/logs
	JSON  bool   `yaml:"json"`
}

type EvaluationConfig struct {
	DefaultTerms int     `yaml:"default_terms" validate:"min=1,max=1000"`
	TermCounts   []int   `yaml:"term_counts" validate:"required,min=1,max=16,dive,min=1,max=1000"`
	Tolerance    float64 `yaml:"tolerance" validate:"gt=0,lt=1"`
	Concurrency  int     `yaml:"concurrency" validate:"gte=0,lte=64"` // 0: GOMAXPROCS
}

type UIConfig struct {
	Format      string `yaml:"format" validate:"oneof=text json markdown"`
	Personality string `yaml:"personality,omitempty" validate:"omitempty,oneof=full standard minimal machine"`
	PageStep    int    `yaml:"page_step" validate:"min=1,max=1000"` // TUI pgup/pgdn step
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() RelationsConfig {
	tc := telemetry.DefaultConfig()
	return RelationsConfig{
		Meta: MetaConfig{Version: CurrentConfigVersion},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Telemetry: telemetry.Config{
			ServiceName:    tc.ServiceName,
			ServiceVersion: tc.ServiceVersion,
			Environment:    tc.Environment,
			TraceExporter:  telemetry.ExporterNone,
			MetricExporter: telemetry.ExporterNone,
		},
		Evaluation: EvaluationConfig{
			DefaultTerms: 500,
			TermCounts:   append([]int(nil), relations.DefaultTermCounts...),
			Tolerance:    relations.DefaultTolerance,
		},
		UI: UIConfig{
			Format:   "text",
			PageStep: 50,
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("semver", validateSemver)
	return v
}

func validateSemver(fl validator.FieldLevel) bool {
	_, err := semver.NewVersion(fl.Field().String())
	return err == nil
}

// Validate checks field constraints and the schema version.
//
// # Outputs
//
//   - error: wraps ErrInvalidConfig with the validator's field errors, or
//     ErrUnsupportedVersion when meta.version has another major version
func (c RelationsConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return checkVersion(c.Meta.Version)
}

func checkVersion(v string) error {
	got, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, v, err)
	}
	want := semver.MustParse(CurrentConfigVersion)
	if got.Major() != want.Major() {
		return fmt.Errorf("%w: %s (this build reads %d.x)", ErrUnsupportedVersion, got, want.Major())
	}
	return nil
}
