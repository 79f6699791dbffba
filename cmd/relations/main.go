// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command relations explores twelve numerical relations between e and π.
//
//	relations list
//	relations eval R1 -n 750
//	relations table --n 100,500,1000 --format markdown
//	relations tui
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// version is reported by --version and attached to telemetry.
const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	return runWith(ctx, newApp(out, errOut), args)
}

func runWith(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if closeErr := a.close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		a.printer.Error(err.Error())
		return exitCodeFor(err)
	}
	return ExitOK
}
