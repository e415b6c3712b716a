// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the lspd-probe command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bocchi810/LSPosed/cmd/lspd-probe/cli"
	"github.com/bocchi810/LSPosed/lib/config"
	"github.com/bocchi810/LSPosed/lib/version"
	"github.com/spf13/pflag"
)

// Root returns the command tree. Results are written to out;
// diagnostics go to logger.
func Root(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) *cli.Command {
	p := &probe{config: cfg, out: out, logger: logger}
	return &cli.Command{
		Name: "lspd-probe",
		Description: `lspd-probe: diagnostics for the LSPosed dex2oat wrapper.

Each command runs one step of the wrapper or the odex filter in
isolation, using the same configuration (LSPOSED_DEX2OAT_CONFIG).`,
		Subcommands: []*cli.Command{
			p.handoffCommand(ctx),
			p.redactCommand(),
			p.identityCommand(),
			p.resolveCommand(),
			p.libraryCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Fprintf(out, "lspd-probe %s\n", version.Full())
					return nil
				},
			},
		},
	}
}

type probe struct {
	config *config.Config
	out    io.Writer
	logger *slog.Logger
}

func newFlagSet(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}

func noArguments(command string, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%s takes no arguments, got %q", command, args)
	}
	return nil
}
