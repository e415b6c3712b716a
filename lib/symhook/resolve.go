// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package symhook

import (
	"debug/elf"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

var (
	// ErrModuleNotFound means no mapping in the process matches the module.
	ErrModuleNotFound = errors.New("symhook: module not loaded")

	// ErrSymbolNotFound means the module has no defined symbol by that name.
	ErrSymbolNotFound = errors.New("symhook: symbol not found")

	// ErrNotImported means the module has no import slot for the symbol.
	ErrNotImported = errors.New("symhook: symbol not imported")
)

// Resolver turns a (module, symbol) pair into the address of the
// pointer-sized import slot through which module calls symbol.
type Resolver interface {
	Resolve(module, symbol string) (uintptr, error)
}

// ProcResolver resolves against the modules mapped into the current
// process, reading their ELF tables from disk.
type ProcResolver struct {
	// MapsPath defaults to /proc/self/maps.
	MapsPath string
}

func (r *ProcResolver) mappings() ([]Mapping, error) {
	mapsPath := r.MapsPath
	if mapsPath == "" {
		mapsPath = "/proc/self/maps"
	}
	return ReadMaps(mapsPath)
}

// loaded is a mapped module opened for reading.
type loaded struct {
	base Mapping
	file *elf.File
	bias uint64
}

func (r *ProcResolver) open(module string) (*loaded, error) {
	mappings, err := r.mappings()
	if err != nil {
		return nil, err
	}
	base, ok := FindModule(mappings, module)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
	}
	return openMapping(base)
}

func openMapping(base Mapping) (*loaded, error) {
	file, err := elf.Open(base.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", base.Path, err)
	}
	loadVaddr, ok := firstLoadVaddr(file)
	if !ok {
		file.Close()
		return nil, fmt.Errorf("%s has no PT_LOAD segment", base.Path)
	}
	return &loaded{base: base, file: file, bias: uint64(base.Start) - loadVaddr}, nil
}

// Resolve implements Resolver. The slot is the GOT entry named by a
// JUMP_SLOT or GLOB_DAT relocation of symbol in module; the dynamic
// linker stores the bound address there.
func (r *ProcResolver) Resolve(module, symbol string) (uintptr, error) {
	target, err := r.open(module)
	if err != nil {
		return 0, err
	}
	defer target.file.Close()

	offset, err := importSlot(target.file, symbol)
	if err != nil {
		return 0, fmt.Errorf("%s in %s: %w", symbol, target.base.Path, err)
	}
	return uintptr(target.bias + offset), nil
}

// Definition returns the load-biased address at which module defines
// symbol. That address is code for a function symbol and must not be
// patched as a pointer.
func (r *ProcResolver) Definition(module, symbol string) (uintptr, error) {
	target, err := r.open(module)
	if err != nil {
		return 0, err
	}
	defer target.file.Close()

	value, err := lookupSymbol(target.file, symbol)
	if err != nil {
		return 0, fmt.Errorf("%s in %s: %w", symbol, target.base.Path, err)
	}
	return uintptr(target.bias + value), nil
}

// Importers returns the base mapping of every loaded ELF module with an
// import slot for symbol. Modules matching any name in exclude are
// skipped, as are mappings that cannot be read as ELF.
func (r *ProcResolver) Importers(symbol string, exclude ...string) ([]Mapping, error) {
	mappings, err := r.mappings()
	if err != nil {
		return nil, err
	}

	var importers []Mapping
	seen := make(map[string]bool)
	for _, mapping := range mappings {
		if mapping.Offset != 0 || !strings.HasPrefix(mapping.Path, "/") || seen[mapping.Path] {
			continue
		}
		seen[mapping.Path] = true
		if excluded(mapping.Path, exclude) {
			continue
		}
		base, _ := FindModule(mappings, mapping.Path)
		target, err := openMapping(base)
		if err != nil {
			continue
		}
		_, err = importSlot(target.file, symbol)
		target.file.Close()
		if err == nil {
			importers = append(importers, base)
		}
	}
	return importers, nil
}

func excluded(path string, exclude []string) bool {
	for _, module := range exclude {
		if module != "" && matchModule(path, module) {
			return true
		}
	}
	return false
}

// FindModule returns the lowest file-offset-zero mapping of module.
// A bare name matches the base name of the mapped path either exactly
// or followed by a version suffix ("libc.so" matches "libc.so.6"). A
// name containing a slash must equal the mapped path.
func FindModule(mappings []Mapping, module string) (Mapping, bool) {
	var found Mapping
	ok := false
	for _, mapping := range mappings {
		if mapping.Offset != 0 || mapping.Path == "" || !matchModule(mapping.Path, module) {
			continue
		}
		if !ok || mapping.Start < found.Start {
			found = mapping
			ok = true
		}
	}
	return found, ok
}

func matchModule(path, module string) bool {
	if strings.Contains(module, "/") {
		return path == module
	}
	base := filepath.Base(path)
	return base == module || strings.HasPrefix(base, module+".")
}

// lookupSymbol prefers the dynamic symbol table, which is what the
// dynamic linker exports, and falls back to the static one.
func lookupSymbol(file *elf.File, name string) (uint64, error) {
	tables := []func() ([]elf.Symbol, error){file.DynamicSymbols, file.Symbols}
	for _, table := range tables {
		symbols, err := table()
		if err != nil {
			continue
		}
		for _, symbol := range symbols {
			if symbol.Name == name && symbol.Section != elf.SHN_UNDEF && symbol.Value != 0 {
				return symbol.Value, nil
			}
		}
	}
	return 0, ErrSymbolNotFound
}

// firstLoadVaddr returns the page-aligned virtual address of the first
// loadable segment, which is what the file-offset-zero mapping starts at.
func firstLoadVaddr(file *elf.File) (uint64, bool) {
	pageMask := uint64(unix.Getpagesize() - 1)
	for _, program := range file.Progs {
		if program.Type == elf.PT_LOAD {
			return program.Vaddr &^ pageMask, true
		}
	}
	return 0, false
}
