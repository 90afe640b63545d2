package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// parseLogLevel maps log.level values onto slog levels, defaulting to info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// stateDir follows XDG: $XDG_STATE_HOME/goframes, falling back to ~/.local/state/goframes
func stateDir() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateHome = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(stateHome, "goframes"), nil
}

// openLogTarget picks where diagnostics go. The TUI owns the terminal, so an
// interactive stderr is never written to; a redirected one is.
func openLogTarget(logFile string) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	if logFile == "" && !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return os.Stderr, noop, nil
	}

	if logFile == "" {
		dir, err := stateDir()
		if err != nil {
			return nil, noop, fmt.Errorf("locate state dir: %w", err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, noop, fmt.Errorf("create state dir: %w", err)
		}
		logFile = filepath.Join(dir, "goframes.log")
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}

// newLogger builds the diagnostic logger; colour is only used when w is a terminal
func newLogger(w io.Writer, level string) *slog.Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      parseLogLevel(level),
		TimeFormat: time.TimeOnly,
		NoColor:    !color,
	}))
}
