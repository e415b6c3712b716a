// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package symhook

import (
	"errors"
	"fmt"
	"runtime/debug"
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	// ErrProtect wraps a failed protection change.
	ErrProtect = errors.New("symhook: changing memory protection")

	// ErrStoreFault means the store inside a writable window faulted.
	ErrStoreFault = errors.New("symhook: store faulted")
)

// Protector changes the protection of a page range.
type Protector interface {
	Protect(start uintptr, size int, prot int) error
}

// MprotectProtector applies protections with mprotect(2).
type MprotectProtector struct{}

// Protect implements Protector.
func (MprotectProtector) Protect(start uintptr, size int, prot int) error {
	region := unsafe.Slice((*byte)(unsafe.Pointer(start)), size)
	return unix.Mprotect(region, prot)
}

// PageWindow is the page-aligned range a patch is confined to.
type PageWindow struct {
	Start uintptr
	Size  int
}

// PageOf returns the page of pageSize bytes containing addr.
func PageOf(addr uintptr, pageSize int) PageWindow {
	size := uintptr(pageSize)
	return PageWindow{
		Start: (addr / size) * size,
		Size:  pageSize,
	}
}

// Contains reports whether the length bytes at addr lie inside the window.
func (w PageWindow) Contains(addr uintptr, length int) bool {
	return addr >= w.Start && addr+uintptr(length) <= w.Start+uintptr(w.Size)
}

// WithWritable adds write access to the window's protection prot, runs
// store exactly once, and then restores prot. The restore runs on every
// path once escalation succeeded, including a store that returns an
// error or faults. If escalation fails, store is not called. Execute
// permission is never added.
func (w PageWindow) WithWritable(protector Protector, prot int, store func() error) (err error) {
	writable := (prot | unix.PROT_WRITE) &^ unix.PROT_EXEC
	if err := protector.Protect(w.Start, w.Size, writable); err != nil {
		return fmt.Errorf("%w: page %#x+%d writable: %v", ErrProtect, w.Start, w.Size, err)
	}
	defer func() {
		if restoreErr := protector.Protect(w.Start, w.Size, prot); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("%w: restoring page %#x+%d: %v", ErrProtect, w.Start, w.Size, restoreErr))
		}
	}()
	return runStore(store)
}

// runStore converts a memory fault during store into ErrStoreFault.
func runStore(store func() error) (err error) {
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: %v", ErrStoreFault, recovered)
		}
	}()
	return store()
}
