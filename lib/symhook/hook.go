// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package symhook

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"unsafe"

	"github.com/bocchi810/LSPosed/lib/logging"
	"golang.org/x/sys/unix"
)

var (
	// ErrAlreadyInstalled is returned by every Install after the first.
	ErrAlreadyInstalled = errors.New("symhook: hook already installed")

	// ErrMisaligned means the resolved address cannot hold a pointer.
	ErrMisaligned = errors.New("symhook: address not pointer-aligned")

	// ErrUnmapped means the resolved address is in no mapping.
	ErrUnmapped = errors.New("symhook: address not mapped")

	// ErrExecutableSlot means the resolved address lies in code. A word
	// stored there would be executed as instructions.
	ErrExecutableSlot = errors.New("symhook: address is in an executable mapping")
)

const wordSize = int(unsafe.Sizeof(uintptr(0)))

// Options configures a Hook. Zero fields take live defaults.
type Options struct {
	Resolver  Resolver
	Protector Protector
	PageSize  int

	// MapsPath is consulted for the slot's current protection. It
	// defaults to /proc/self/maps.
	MapsPath string

	Logger *slog.Logger
}

// Hook is one import slot of one module. The exported fields are
// populated by Install and read-only afterwards.
type Hook struct {
	Module string
	Symbol string

	// Address is the import slot.
	Address uintptr

	// Page is the window whose protection was changed.
	Page PageWindow

	// Original is the bound address the slot held before the patch.
	Original uintptr

	resolver  Resolver
	protector Protector
	pageSize  int
	mapsPath  string
	logger    *slog.Logger
	attempted atomic.Bool
}

// New prepares a hook on module's import of symbol. Nothing is resolved
// or patched until Install.
func New(module, symbol string, options Options) *Hook {
	hook := &Hook{
		Module:    module,
		Symbol:    symbol,
		resolver:  options.Resolver,
		protector: options.Protector,
		pageSize:  options.PageSize,
		mapsPath:  options.MapsPath,
		logger:    options.Logger,
	}
	if hook.resolver == nil {
		hook.resolver = &ProcResolver{MapsPath: options.MapsPath}
	}
	if hook.protector == nil {
		hook.protector = MprotectProtector{}
	}
	if hook.pageSize <= 0 {
		hook.pageSize = unix.Getpagesize()
	}
	if hook.mapsPath == "" {
		hook.mapsPath = "/proc/self/maps"
	}
	if hook.logger == nil {
		hook.logger = logging.Discard()
	}
	return hook
}

// Install resolves the import slot and swaps its word for replacement.
// Install may be attempted once: later calls return ErrAlreadyInstalled
// whether or not the first attempt succeeded, so a slot is never
// re-resolved. The slot must be an aligned word in a non-executable
// mapping; its page gets write access only for the store and is then
// returned to the mapping's own protection. On failure before the
// store no memory has been modified.
func (h *Hook) Install(replacement uintptr) error {
	if !h.attempted.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s!%s", ErrAlreadyInstalled, h.Module, h.Symbol)
	}

	address, err := h.resolver.Resolve(h.Module, h.Symbol)
	if err != nil {
		return fmt.Errorf("resolving %s!%s: %w", h.Module, h.Symbol, err)
	}
	if address%uintptr(wordSize) != 0 {
		return fmt.Errorf("%w: %s!%s at %#x", ErrMisaligned, h.Module, h.Symbol, address)
	}

	mapping, err := h.mappingOf(address)
	if err != nil {
		return fmt.Errorf("%s!%s: %w", h.Module, h.Symbol, err)
	}
	if mapping.Executable() {
		return fmt.Errorf("%w: %s!%s at %#x (%s %s)", ErrExecutableSlot, h.Module, h.Symbol, address, mapping.Perms, mapping.Path)
	}

	page := PageOf(address, h.pageSize)
	var previous uintptr
	stored := false
	err = page.WithWritable(h.protector, mapping.Prot(), func() error {
		previous = atomic.SwapUintptr((*uintptr)(unsafe.Pointer(address)), replacement)
		stored = true
		return nil
	})

	h.Address = address
	h.Page = page
	if stored {
		h.Original = previous
	}
	if err != nil {
		return fmt.Errorf("patching %s!%s at %#x: %w", h.Module, h.Symbol, address, err)
	}

	h.logger.Info("hook installed",
		"module", h.Module,
		"symbol", h.Symbol,
		"slot", fmt.Sprintf("%#x", address),
		"page", fmt.Sprintf("%#x", page.Start),
		"perms", mapping.Perms,
		"original", fmt.Sprintf("%#x", previous),
	)
	return nil
}

func (h *Hook) mappingOf(address uintptr) (Mapping, error) {
	mappings, err := ReadMaps(h.mapsPath)
	if err != nil {
		return Mapping{}, err
	}
	for _, mapping := range mappings {
		if mapping.Contains(address) {
			return mapping, nil
		}
	}
	return Mapping{}, fmt.Errorf("%w: %#x", ErrUnmapped, address)
}
