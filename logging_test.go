package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assertEqual(t, parseLogLevel(tt.in), tt.want, tt.in)
	}
}

// TestNewLoggerFiltersLevel checks the handler honours the level and writes plain text to buffers
func TestNewLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Error("unable to open video", "path", "/x.mp4")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected info message filtered out")
	}
	if !strings.Contains(out, "unable to open video") || !strings.Contains(out, "/x.mp4") {
		t.Errorf("Expected error message with path, got %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Error("Expected no colour codes when not writing to a terminal")
	}
}

// TestOpenLogTargetFile checks an explicit log file is created and appended to
func TestOpenLogTargetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goframes.log")

	w, closeFn, err := openLogTarget(path)
	assertNoError(t, err)
	newLogger(w, "info").Info("hello")
	assertNoError(t, closeFn())

	data, err := os.ReadFile(path)
	assertNoError(t, err)
	if !strings.Contains(string(data), "hello") {
		t.Errorf("Expected log line in file, got %q", data)
	}
}

func TestOpenLogTargetBadPath(t *testing.T) {
	if _, _, err := openLogTarget(filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Error("Expected error for unwritable log path")
	}
}
