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
	"errors"
	"fmt"

	"github.com/AleutianAI/relations/cmd/relations/config"
	"github.com/AleutianAI/relations/services/relations"
	"github.com/AleutianAI/relations/services/relations/format"
	"github.com/AleutianAI/relations/services/relations/telemetry"
	"github.com/charmbracelet/huh"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1   // evaluation failed or a reference did not verify
	ExitUsage    = 2   // bad arguments or flags
	ExitNotFound = 3   // unknown relation id
	ExitConfig   = 4   // config file or telemetry setup rejected
	ExitAborted  = 130 // prompt cancelled
)

var (
	// errUsage marks argument and flag errors.
	errUsage = errors.New("usage")

	// errAborted marks a cancelled interactive prompt.
	errAborted = errors.New("aborted")

	// errVerification is returned by verify when a reference does not match.
	errVerification = errors.New("verification failed")
)

// CommandError wraps a command failure with an explicit exit code.
//
// # Description
//
// Most errors are classified by exitCodeFor through errors.Is. A
// CommandError overrides that classification.
//
// # Example
//
//	return &CommandError{Command: "tui", ExitCode: ExitUsage, Wrapped: err}
type CommandError struct {
	// Command is the subcommand that failed.
	Command string

	// ExitCode is the process exit code to use.
	ExitCode int

	// Wrapped is the underlying error.
	Wrapped error
}

// Error returns "<command>: <wrapped>".
func (e *CommandError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("%s (exit %d)", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Wrapped)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Wrapped
}

// usageError formats an argument error that maps to ExitUsage.
func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// exitCodeFor maps an error to a process exit code.
func exitCodeFor(err error) int {
	var cmdErr *CommandError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &cmdErr):
		return cmdErr.ExitCode
	case errors.Is(err, errAborted), errors.Is(err, huh.ErrUserAborted):
		return ExitAborted
	case errors.Is(err, relations.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, relations.ErrInvalidArgument),
		errors.Is(err, format.ErrFormatNotSupported),
		errors.Is(err, errUsage):
		return ExitUsage
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrUnsupportedVersion),
		errors.Is(err, telemetry.ErrUnknownExporter):
		return ExitConfig
	default:
		return ExitFailure
	}
}
