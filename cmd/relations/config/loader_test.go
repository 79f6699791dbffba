// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestCreateDefault verifies default config creation.
func TestCreateDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".relations", "relations.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}

	var cfg RelationsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	if cfg.Meta.Version != CurrentConfigVersion {
		t.Errorf("Meta.Version = %q, want %q", cfg.Meta.Version, CurrentConfigVersion)
	}
	if cfg.Evaluation.DefaultTerms != 500 {
		t.Errorf("Evaluation.DefaultTerms = %d, want 500", cfg.Evaluation.DefaultTerms)
	}
	if cfg.Telemetry.MetricExporter != "none" {
		t.Errorf("Telemetry.MetricExporter = %q, want none", cfg.Telemetry.MetricExporter)
	}
}

// TestLoadFile_FirstRun verifies a missing file is created and loaded.
func TestLoadFile_FirstRun(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "relations.yaml")

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if cfg.UI.Format != "text" || cfg.UI.PageStep != 50 {
		t.Errorf("UI = %+v", cfg.UI)
	}
}

// TestLoadFile_PartialFileKeepsDefaults verifies missing keys fall back.
func TestLoadFile_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "relations.yaml")
	content := `
meta:
  version: "1.2.0"
evaluation:
  term_counts: [100, 1000]
ui:
  format: json
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if got := cfg.Evaluation.TermCounts; len(got) != 2 || got[0] != 100 || got[1] != 1000 {
		t.Errorf("TermCounts = %v, want [100 1000]", got)
	}
	if cfg.UI.Format != "json" {
		t.Errorf("UI.Format = %q, want json", cfg.UI.Format)
	}
	if cfg.Evaluation.DefaultTerms != 500 || cfg.Logging.Level != "warn" {
		t.Errorf("defaults lost: %+v %+v", cfg.Evaluation, cfg.Logging)
	}
}

// TestLoadFile_Invalid verifies validation errors name the file.
func TestLoadFile_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "relations.yaml")
	if err := os.WriteFile(configPath, []byte("evaluation:\n  default_terms: 5000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("LoadFile() error = %v, want ErrInvalidConfig", err)
	}
}

// TestLoadFile_Malformed verifies YAML syntax errors are reported.
func TestLoadFile_Malformed(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "relations.yaml")
	if err := os.WriteFile(configPath, []byte("ui: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(configPath); err == nil {
		t.Fatal("expected parse error")
	}
}
