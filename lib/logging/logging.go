// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the structured loggers used by the wrapper,
// the hook library, and the probe.
//
// Output goes to stderr. When stderr is a terminal the text handler is
// used for readability; otherwise the JSON handler, which is what the
// parent process collects when it redirects a wrapper's stderr. Setting
// LSPOSED_DEBUG to any non-empty value lowers the level to debug.
package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// DebugEnv enables debug logging when non-empty.
const DebugEnv = "LSPOSED_DEBUG"

// New returns a logger for component writing to stderr.
func New(component string) *slog.Logger {
	return NewWriter(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), component)
}

// NewWriter returns a logger for component writing to w. text selects
// the text handler instead of JSON.
func NewWriter(w io.Writer, text bool, component string) *slog.Logger {
	options := &slog.HandlerOptions{Level: Level()}
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler).With("component", component)
}

// Level returns the level selected by the environment.
func Level() slog.Level {
	if os.Getenv(DebugEnv) != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
