// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"path/filepath"
	"unsafe"

	"github.com/bocchi810/LSPosed/cmd/lspd-probe/cli"
	"github.com/bocchi810/LSPosed/lib/dlentry"
	"github.com/bocchi810/LSPosed/lib/symhook"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"
)

type slotResult struct {
	Importer   string `json:"importer"`
	Slot       string `json:"slot"`
	Page       string `json:"page"`
	Permission string `json:"permission"`
	Bound      string `json:"bound"`
}

type resolveResult struct {
	Module     string       `json:"module"`
	Symbol     string       `json:"symbol"`
	Path       string       `json:"path"`
	Definition string       `json:"definition"`
	Slots      []slotResult `json:"slots"`
}

func (p *probe) resolveCommand() *cli.Command {
	var (
		module     string
		symbol     string
		load       bool
		jsonOutput bool
	)
	return &cli.Command{
		Name:    "resolve",
		Summary: "Resolve a symbol the way the read hook does",
		Description: `Find a module in this process's memory map and print the load-biased
address at which it defines a symbol. Then list every other loaded
module that imports the symbol, with the address of its import slot,
the page the hook would make writable, and the word the slot holds.
Nothing is modified.`,
		Examples: []cli.Example{
			{Description: "Resolve the default hook target", Command: "lspd-probe resolve"},
			{Description: "Load libart.so first, then resolve dex2oat", Command: "lspd-probe resolve --load --module libart.so --symbol dex2oat"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("resolve")
			flagSet.StringVar(&module, "module", p.config.Hook.Module, "module defining the symbol")
			flagSet.StringVar(&symbol, "symbol", p.config.Hook.Symbol, "symbol to resolve")
			flagSet.BoolVar(&load, "load", false, "dlopen the module before resolving")
			flagSet.BoolVar(&jsonOutput, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if err := noArguments("resolve", args); err != nil {
				return err
			}
			if load {
				library, err := dlentry.Open(module)
				if err != nil {
					return err
				}
				defer library.Close()
			}

			const mapsPath = "/proc/self/maps"
			resolver := &symhook.ProcResolver{MapsPath: mapsPath}
			definition, err := resolver.Definition(module, symbol)
			if err != nil {
				return err
			}
			importers, err := resolver.Importers(symbol, module)
			if err != nil {
				return err
			}
			mappings, err := symhook.ReadMaps(mapsPath)
			if err != nil {
				return err
			}

			result := resolveResult{
				Module:     module,
				Symbol:     symbol,
				Definition: fmt.Sprintf("%#x", definition),
				Slots:      []slotResult{},
			}
			if base, ok := symhook.FindModule(mappings, module); ok {
				result.Path = base.Path
			}
			for _, importer := range importers {
				slot, err := resolver.Resolve(importer.Path, symbol)
				if err != nil {
					p.logger.Debug("import slot vanished", "importer", importer.Path, "error", err)
					continue
				}
				entry := slotResult{
					Importer: importer.Path,
					Slot:     fmt.Sprintf("%#x", slot),
					Page:     fmt.Sprintf("%#x", symhook.PageOf(slot, unix.Getpagesize()).Start),
				}
				for _, mapping := range mappings {
					if mapping.Contains(slot) {
						entry.Permission = mapping.Perms
						if mapping.Prot()&unix.PROT_READ != 0 {
							entry.Bound = fmt.Sprintf("%#x", readWord(slot))
						}
						break
					}
				}
				result.Slots = append(result.Slots, entry)
			}

			if jsonOutput {
				return cli.WriteJSON(p.out, result)
			}
			fmt.Fprintf(p.out, "%s (%s)\n", symhook.SymbolID(module, symbol), result.Path)
			fmt.Fprintf(p.out, "  definition: %s\n", result.Definition)
			for _, entry := range result.Slots {
				fmt.Fprintf(p.out, "  slot:       %s in %s (page %s %s, holds %s)\n",
					entry.Slot, filepath.Base(entry.Importer), entry.Page, entry.Permission, entry.Bound)
			}
			return nil
		},
	}
}

// readWord loads the pointer stored at a readable mapped address.
func readWord(address uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(address))
}
