// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevel_toSlogLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{Level(99), slog.LevelInfo}, // Unknown defaults to Info
	}

	for _, tt := range tests {
		if got := tt.level.toSlogLevel(); got != tt.want {
			t.Errorf("%v.toSlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{" error ", LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("verbose"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("ParseLevel(verbose) error = %v, want %v", err, ErrUnknownLevel)
	}
}

// =============================================================================
// Logger Tests
// =============================================================================

func TestNew_DefaultConfig(t *testing.T) {
	logger := New(Config{})
	defer logger.Close()

	if logger.slog == nil {
		t.Fatal("logger.slog is nil")
	}
	if logger.file != nil {
		t.Error("no LogDir should mean no file")
	}
}

func TestLogger_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Service: "relations", Output: &buf})

	logger.Debug("evaluated", "relation", "R1", "n", 500)

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "msg=evaluated", "relation=R1", "n=500", "service=relations"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{JSON: true, Output: &buf})

	logger.Info("batch evaluation complete", "rows", 12)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "batch evaluation complete" || rec["rows"] != float64(12) {
		t.Errorf("record = %v", rec)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	out := buf.String()
	if strings.Contains(out, "msg=debug") || strings.Contains(out, "msg=info") {
		t.Errorf("messages below Warn were logged: %s", out)
	}
	if !strings.Contains(out, "msg=warn") || !strings.Contains(out, "msg=error") {
		t.Errorf("Warn/Error missing: %s", out)
	}
}

func TestLogger_Quiet(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Quiet: true, Output: &buf})

	logger.Error("hidden")
	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Config{Output: &buf})
	child := parent.With("command", "table")

	child.Info("starting")
	parent.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "command=table") {
		t.Errorf("child line missing attribute: %s", lines[0])
	}
	if strings.Contains(lines[1], "command=table") {
		t.Errorf("parent line has child attribute: %s", lines[1])
	}
}

func TestLogger_Slog(t *testing.T) {
	logger := New(Config{Quiet: true})
	if logger.Slog() == nil {
		t.Error("Slog() returned nil")
	}
}

// =============================================================================
// File Logging Tests
// =============================================================================

func TestNew_WithLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer
	logger := New(Config{LogDir: dir, Service: "relations", Output: &console})

	logger.Info("written to both", "relation", "R4")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	name := "relations_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("file log is not JSON: %v\n%s", err, data)
	}
	if rec["relation"] != "R4" || rec["service"] != "relations" {
		t.Errorf("file record = %v", rec)
	}
	if !strings.Contains(console.String(), "written to both") {
		t.Error("console output missing")
	}
}

func TestNew_WithLogDir_Invalid(t *testing.T) {
	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	var console bytes.Buffer
	logger := New(Config{LogDir: filepath.Join(blocker, "logs"), Output: &console})
	defer logger.Close()

	if logger.file != nil {
		t.Error("file should be nil for an invalid log dir")
	}
	if !strings.Contains(console.String(), "file logging disabled") {
		t.Errorf("expected warning, got %q", console.String())
	}
}

func TestLogger_Close_ChildDoesNotCloseFile(t *testing.T) {
	logger := New(Config{LogDir: t.TempDir(), Quiet: true})
	child := logger.With("k", "v")

	if err := child.Close(); err != nil {
		t.Fatalf("child Close() error = %v", err)
	}
	child.Info("still open")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestLogger_ConcurrentUse(t *testing.T) {
	var buf syncBuffer
	logger := New(Config{Output: &buf})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.With("worker", i).Info("tick")
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "msg=tick"); got != 8 {
		t.Errorf("expected 8 records, got %d", got)
	}
}

// =============================================================================
// Multi-Handler Tests
// =============================================================================

func TestMultiHandler(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(Debug) should be true when any handler accepts it")
	}

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("a", "b")}).WithGroup("g"))
	logger.Info("info", "k", 1)
	logger.Warn("warn", "k", 2)

	if !strings.Contains(debugBuf.String(), "msg=info") || !strings.Contains(debugBuf.String(), "msg=warn") {
		t.Errorf("debug handler = %q", debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "msg=info") || !strings.Contains(warnBuf.String(), "g.k=2") {
		t.Errorf("warn handler = %q", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), "a=b") {
		t.Errorf("WithAttrs not applied: %q", warnBuf.String())
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/.relations/logs", filepath.Join(home, ".relations/logs")},
		{"~", home},
		{"/var/log", "/var/log"},
		{"relative/path", "relative/path"},
		{"~user/x", "~user/x"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
