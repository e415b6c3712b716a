// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/bocchi810/LSPosed/cmd/lspd-probe/cli"
	"github.com/bocchi810/LSPosed/lib/redact"
	"github.com/spf13/pflag"
)

func (p *probe) redactCommand() *cli.Command {
	var (
		marker string
		output string
	)
	return &cli.Command{
		Name:    "redact",
		Summary: "Apply the odex redaction to a file",
		Description: `Read a file whole, remove the value and line break after the first
marker the way the read filter would, and write the result to stdout
or --output.`,
		Usage: "lspd-probe redact [flags] <file>",
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("redact")
			flagSet.StringVar(&marker, "marker", p.config.Filter.Marker, "flag prefix whose value is removed")
			flagSet.StringVarP(&output, "output", "o", "", "write the result here instead of stdout")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("redact takes exactly one file, got %d arguments", len(args))
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			reduced := redact.Redact(data, []byte(marker))
			p.logger.Info("redacted", "file", args[0], "removed", len(data)-reduced)

			if output == "" {
				_, err := p.out.Write(data[:reduced])
				return err
			}
			if err := os.WriteFile(output, data[:reduced], 0o644); err != nil {
				return err
			}
			fmt.Fprintf(p.out, "%s: removed %d bytes\n", output, len(data)-reduced)
			return nil
		},
	}
}
