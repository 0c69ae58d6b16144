package cmd

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// newCommandLogger builds the diagnostics logger. Text output when w is a
// terminal, JSON otherwise. Verbosity 0 logs warnings, 1 info, 2+ debug.
func newCommandLogger(w io.Writer, verbosity int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}

	options := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}
