// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"sync/atomic"

	"github.com/bocchi810/LSPosed/lib/config"
	"github.com/bocchi810/LSPosed/lib/logging"
	"github.com/bocchi810/LSPosed/lib/procident"
	"github.com/bocchi810/LSPosed/lib/readhook"
	"github.com/bocchi810/LSPosed/lib/symhook"
	"golang.org/x/sys/unix"
)

// active is the interceptor lspd_read routes through. It is nil until
// the hook is installed.
var active atomic.Pointer[readhook.Interceptor]

func main() {}

func init() {
	logger := logging.New("odex-filter")
	if err := install(logger); err != nil {
		logger.Error("read hook not installed", "error", err)
	}
}

func install(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	table := symhook.NewTable()
	original, err := symhook.Register[readhook.ReadFunc](table, symhook.SymbolID(cfg.Hook.Module, cfg.Hook.Symbol))
	if err != nil {
		return err
	}

	replacement := replacementAddress()
	hooks, err := importHooks(cfg.Hook.Module, cfg.Hook.Symbol, replacement, logger)
	if err != nil {
		return err
	}
	interceptor, err := readhook.Install(hooks, replacement, unix.Read, readhook.Config{
		Original: original,
		Resolver: &procident.Procfs{},
		AllowList: procident.AllowList{
			Exact:        cfg.Filter.TrustedName,
			Prefix:       cfg.Filter.TrustedPrefix,
			PrefixLength: cfg.Filter.TrustedPrefixLength,
		},
		Suffix: cfg.Filter.TargetSuffix,
		Marker: cfg.Filter.Marker,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	active.Store(interceptor)
	interceptor.Activate()
	logger.Debug("odex filter active", "symbols", table.Names())
	return nil
}

// importHooks prepares a hook on every loaded module that imports
// symbol, except module, which defines it, and this library, which
// contains replacement.
func importHooks(module, symbol string, replacement uintptr, logger *slog.Logger) ([]*symhook.Hook, error) {
	const mapsPath = "/proc/self/maps"
	mappings, err := symhook.ReadMaps(mapsPath)
	if err != nil {
		return nil, err
	}
	exclude := []string{module}
	for _, mapping := range mappings {
		if mapping.Contains(replacement) {
			exclude = append(exclude, mapping.Path)
			break
		}
	}

	resolver := &symhook.ProcResolver{MapsPath: mapsPath}
	importers, err := resolver.Importers(symbol, exclude...)
	if err != nil {
		return nil, err
	}
	hooks := make([]*symhook.Hook, 0, len(importers))
	for _, importer := range importers {
		hooks = append(hooks, symhook.New(importer.Path, symbol, symhook.Options{
			Resolver: resolver,
			MapsPath: mapsPath,
			Logger:   logger,
		}))
	}
	logger.Debug("import slots found", "symbol", symbol, "importers", len(hooks), "excluded", exclude)
	return hooks, nil
}
