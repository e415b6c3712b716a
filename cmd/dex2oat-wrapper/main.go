// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bocchi810/LSPosed/lib/argvfilter"
	"github.com/bocchi810/LSPosed/lib/config"
	"github.com/bocchi810/LSPosed/lib/dlentry"
	"github.com/bocchi810/LSPosed/lib/fdhandoff"
	"github.com/bocchi810/LSPosed/lib/logging"
	"github.com/bocchi810/LSPosed/lib/process"
	"golang.org/x/sys/unix"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		process.Fatal(err)
	}
	logger := logging.New("dex2oat-wrapper")

	w := &wrapper{
		config: cfg,
		logger: logger,
		handoff: &fdhandoff.Client{
			Token:  cfg.Handoff.Token,
			Logger: logger,
		},
		load:      loadEntry,
		lookupEnv: os.LookupEnv,
		setenv:    os.Setenv,
		closeFD:   unix.Close,
		ppid:      os.Getppid(),
	}
	os.Exit(w.run(context.Background(), os.Args))
}

type requester interface {
	Request(ctx context.Context, capability fdhandoff.Capability) (fdhandoff.Response, error)
}

type entry interface {
	Call(args []string) bool
}

// loadEntry opens library and resolves symbol. The library handle is
// never closed: the entry runs until the process exits.
func loadEntry(library, symbol string) (entry, error) {
	handle, err := dlentry.Open(library)
	if err != nil {
		return nil, err
	}
	target, err := handle.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	return target, nil
}

type wrapper struct {
	config    *config.Config
	logger    *slog.Logger
	handoff   requester
	load      func(library, symbol string) (entry, error)
	lookupEnv func(key string) (string, bool)
	setenv    func(key, value string) error
	closeFD   func(fd int) error
	ppid      int
}

func (w *wrapper) run(ctx context.Context, args []string) int {
	argv0 := ""
	if len(args) > 0 {
		argv0 = args[0]
	}

	capability := fdhandoff.CapabilityFor(argv0, w.config.Handoff.DebugMarker)
	response, err := w.handoff.Request(ctx, capability)
	if err != nil {
		w.logger.Error("handoff failed", "ppid", w.ppid, "error", err)
		return process.ExitFailure
	}
	w.logger.Info("descriptor handoff",
		"ppid", w.ppid,
		"socket", w.config.Handoff.Token,
		"fd", response.FD,
		"ack", response.Ack,
		"capability", capability.Code(),
	)
	if response.FD >= 0 {
		if err := w.closeFD(response.FD); err != nil {
			w.logger.Warn("closing borrowed descriptor", "fd", response.FD, "error", err)
		}
	}

	pathEnv := w.config.Wrapper.LibraryPathEnv
	if _, set := w.lookupEnv(pathEnv); !set {
		path := w.config.DefaultLibraryPath()
		if err := w.setenv(pathEnv, path); err != nil {
			w.logger.Warn("setting library path", "variable", pathEnv, "error", err)
		} else {
			w.logger.Debug("library path defaulted", "variable", pathEnv, "value", path)
		}
	}

	target, err := w.load(w.config.Wrapper.Library, w.config.Wrapper.Symbol)
	if err != nil {
		w.logger.Error("loading dex2oat entry point",
			"library", w.config.Wrapper.Library,
			"symbol", w.config.Wrapper.Symbol,
			"error", err,
		)
		return process.ExitFailure
	}

	filtered := argvfilter.Filter(args, w.config.Wrapper.DenyArgs, w.logger)
	succeeded := target.Call(filtered)
	w.logger.Debug("dex2oat returned", "succeeded", succeeded, "arguments", len(filtered))
	return process.ExitCode(succeeded)
}
