// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/bocchi810/LSPosed/cmd/lspd-probe/commands"
	"github.com/bocchi810/LSPosed/lib/config"
	"github.com/bocchi810/LSPosed/lib/logging"
	"github.com/bocchi810/LSPosed/lib/process"
	"golang.org/x/sys/unix"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		process.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := logging.New("lspd-probe")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	return commands.Root(ctx, cfg, os.Stdout, logger).Execute(os.Args[1:])
}
