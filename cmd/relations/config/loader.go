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
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath returns ~/.relations/relations.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".relations", "relations.yaml"), nil
}

// LoadFile reads, defaults and validates one config file, creating it with
// DefaultConfig() if it does not exist. Keys missing from the file keep
// their default values. An empty path selects DefaultPath().
func LoadFile(path string) (RelationsConfig, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return RelationsConfig{}, err
		}
		path = p
	}
	// create it if it doesn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, " First run detected, creating the config at %s\n", path)
		if err := createDefault(path); err != nil {
			return RelationsConfig{}, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return RelationsConfig{}, fmt.Errorf("failed to read the config file %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return RelationsConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig() and validates the result.
func Parse(data []byte) (RelationsConfig, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RelationsConfig{}, fmt.Errorf("failed to parse the config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RelationsConfig{}, err
	}
	return cfg, nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
