// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/bocchi810/LSPosed/cmd/lspd-probe/cli"
	"github.com/bocchi810/LSPosed/lib/procident"
	"github.com/spf13/pflag"
)

type identityResult struct {
	PID      int    `json:"pid"`
	Cmdline  string `json:"cmdline"`
	Trusted  bool   `json:"trusted"`
	Path     string `json:"path,omitempty"`
	Filtered *bool  `json:"filtered,omitempty"`
}

func (p *probe) identityAllowList() procident.AllowList {
	return procident.AllowList{
		Exact:        p.config.Filter.TrustedName,
		Prefix:       p.config.Filter.TrustedPrefix,
		PrefixLength: p.config.Filter.TrustedPrefixLength,
	}
}

func (p *probe) identityCommand() *cli.Command {
	var (
		pid        int
		procRoot   string
		path       string
		jsonOutput bool
	)
	return &cli.Command{
		Name:    "identity",
		Summary: "Show a process identity and its trust decision",
		Description: `Print the command-line identity the odex filter would see for a
process, and whether the allow-list trusts it. With --path, also
report whether a read of that file by the process would be filtered.`,
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("identity")
			flagSet.IntVar(&pid, "pid", os.Getpid(), "process to inspect")
			flagSet.StringVar(&procRoot, "proc", "/proc", "procfs mount point")
			flagSet.StringVar(&path, "path", "", "file whose reads to evaluate")
			flagSet.BoolVar(&jsonOutput, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if err := noArguments("identity", args); err != nil {
				return err
			}
			identity, err := (&procident.Procfs{Root: procRoot}).Identity(pid)
			if err != nil {
				return err
			}

			result := identityResult{
				PID:     identity.PID,
				Cmdline: identity.Cmdline,
				Trusted: p.identityAllowList().Trusted(identity),
			}
			if path != "" {
				filtered := !result.Trusted && strings.HasSuffix(path, p.config.Filter.TargetSuffix)
				result.Path = path
				result.Filtered = &filtered
			}

			if jsonOutput {
				return cli.WriteJSON(p.out, result)
			}
			fmt.Fprintf(p.out, "pid:      %d\n", result.PID)
			fmt.Fprintf(p.out, "cmdline:  %s\n", result.Cmdline)
			fmt.Fprintf(p.out, "trusted:  %t\n", result.Trusted)
			if result.Filtered != nil {
				fmt.Fprintf(p.out, "filtered: %t (%s)\n", *result.Filtered, result.Path)
			}
			return nil
		},
	}
}
