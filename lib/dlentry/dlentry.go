// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package dlentry

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
#include "dlentry.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"
)

var (
	// ErrOpen is returned when the loader cannot open a library.
	ErrOpen = errors.New("cannot open library")

	// ErrSymbol is returned when a library does not define a symbol.
	ErrSymbol = errors.New("symbol not found")

	// ErrClosed is returned by Lookup after Close.
	ErrClosed = errors.New("library closed")
)

// Library is a handle returned by dlopen.
type Library struct {
	// Name is the name passed to Open.
	Name string

	mu     sync.Mutex
	handle unsafe.Pointer
}

// Open loads name with RTLD_NOW, so unresolved dependencies fail here
// rather than at the first call.
func Open(name string) (*Library, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	handle := C.dlopen(cname, C.RTLD_NOW)
	if handle == nil {
		return nil, fmt.Errorf("%w %s: %s", ErrOpen, name, lastError())
	}
	return &Library{Name: name, handle: handle}, nil
}

// Lookup resolves symbol in the library.
func (l *Library) Lookup(symbol string) (*Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == nil {
		return nil, fmt.Errorf("looking up %s in %s: %w", symbol, l.Name, ErrClosed)
	}

	csymbol := C.CString(symbol)
	defer C.free(unsafe.Pointer(csymbol))

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	C.dlerror()
	address := C.dlsym(l.handle, csymbol)
	if address == nil {
		return nil, fmt.Errorf("%w: %s in %s: %s", ErrSymbol, symbol, l.Name, lastError())
	}
	return &Entry{Library: l.Name, Symbol: symbol, fn: address}, nil
}

// Close releases the handle. Entries looked up from the library must
// not be called afterwards.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == nil {
		return nil
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	status := C.dlclose(l.handle)
	l.handle = nil
	if status != 0 {
		return fmt.Errorf("closing %s: %s", l.Name, lastError())
	}
	return nil
}

// Entry is a resolved bool(int, char**) function.
type Entry struct {
	Library string
	Symbol  string

	fn unsafe.Pointer
}

// Address returns the resolved function address.
func (e *Entry) Address() uintptr {
	return uintptr(e.fn)
}

// Call invokes the entry with args as argv. args[0] is conventionally
// the program name.
func (e *Entry) Call(args []string) bool {
	argv := newArgv(args)
	defer argv.free()
	return bool(C.lspd_call_entry(e.fn, C.int(argv.count), argv.ptr))
}

func lastError() string {
	message := C.dlerror()
	if message == nil {
		return "unknown loader error"
	}
	return C.GoString(message)
}

// argv is a NULL-terminated char* array on the C heap.
type argv struct {
	ptr   **C.char
	count int
}

func newArgv(args []string) *argv {
	size := C.size_t(len(args)+1) * C.size_t(unsafe.Sizeof((*C.char)(nil)))
	ptr := (**C.char)(C.malloc(size))
	slots := unsafe.Slice(ptr, len(args)+1)
	for index, arg := range args {
		slots[index] = C.CString(arg)
	}
	slots[len(args)] = nil
	return &argv{ptr: ptr, count: len(args)}
}

// strings reads the array back and reports whether the slot after the
// last argument is NULL.
func (a *argv) strings() ([]string, bool) {
	slots := unsafe.Slice(a.ptr, a.count+1)
	values := make([]string, a.count)
	for index := 0; index < a.count; index++ {
		values[index] = C.GoString(slots[index])
	}
	return values, slots[a.count] == nil
}

func (a *argv) free() {
	slots := unsafe.Slice(a.ptr, a.count+1)
	for index := 0; index < a.count; index++ {
		C.free(unsafe.Pointer(slots[index]))
	}
	C.free(unsafe.Pointer(a.ptr))
}
