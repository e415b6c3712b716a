// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/bocchi810/LSPosed/cmd/lspd-probe/cli"
	"github.com/bocchi810/LSPosed/lib/binhash"
	"github.com/bocchi810/LSPosed/lib/dlentry"
	"github.com/spf13/pflag"
)

type libraryResult struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Digest string `json:"digest"`
	Match  *bool  `json:"match,omitempty"`
}

func (p *probe) libraryCommand() *cli.Command {
	var (
		name       string
		searchPath string
		expect     string
		jsonOutput bool
	)
	return &cli.Command{
		Name:    "library",
		Summary: "Locate the compiler library and print its BLAKE3 digest",
		Description: `Search the library path the wrapper would use for the compiler
library and print its BLAKE3 digest. The search path is --path, else
the library path environment variable, else the word-size default.

With --expect the command exits 1 when the digest differs.`,
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("library")
			flagSet.StringVar(&name, "name", p.config.Wrapper.Library, "library file name")
			flagSet.StringVar(&searchPath, "path", "", "colon-separated directories to search")
			flagSet.StringVar(&expect, "expect", "", "expected digest in hex")
			flagSet.BoolVar(&jsonOutput, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if err := noArguments("library", args); err != nil {
				return err
			}

			var expected binhash.Digest
			if expect != "" {
				var err error
				if expected, err = binhash.ParseDigest(expect); err != nil {
					return err
				}
			}

			if searchPath == "" {
				searchPath = p.librarySearchPath()
			}
			path, err := dlentry.FindLibrary(name, searchPath)
			if err != nil {
				return err
			}
			digest, err := binhash.HashFile(path)
			if err != nil {
				return err
			}

			result := libraryResult{Name: name, Path: path, Digest: binhash.FormatDigest(digest)}
			if expect != "" {
				match := digest == expected
				result.Match = &match
			}

			if jsonOutput {
				if err := cli.WriteJSON(p.out, result); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(p.out, "%s  %s\n", result.Digest, result.Path)
			}
			if result.Match != nil && !*result.Match {
				p.logger.Error("library digest mismatch", "path", path, "digest", result.Digest, "expected", expect)
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func (p *probe) librarySearchPath() string {
	if value, ok := os.LookupEnv(p.config.Wrapper.LibraryPathEnv); ok {
		return value
	}
	return p.config.DefaultLibraryPath()
}
