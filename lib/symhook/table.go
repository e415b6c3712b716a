// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package symhook

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// ErrAlreadyPublished is returned when a slot is published twice.
var ErrAlreadyPublished = errors.New("symhook: slot already published")

// Slot holds one function reference, published once.
type Slot[F any] struct {
	name string
	fn   atomic.Pointer[F]
}

// Name returns the symbol identity the slot was registered under.
func (s *Slot[F]) Name() string {
	return s.name
}

// Publish stores fn. Only the first call succeeds.
func (s *Slot[F]) Publish(fn F) error {
	if !s.fn.CompareAndSwap(nil, &fn) {
		return fmt.Errorf("%w: %s", ErrAlreadyPublished, s.name)
	}
	return nil
}

// Load returns the published function, or false if none was published.
func (s *Slot[F]) Load() (F, bool) {
	pointer := s.fn.Load()
	if pointer == nil {
		var zero F
		return zero, false
	}
	return *pointer, true
}

// Table maps symbol identities to slots. Registration takes a lock and
// is expected only during initialization; slot reads never do.
type Table struct {
	mu    sync.Mutex
	slots map[string]any
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{slots: make(map[string]any)}
}

// Register returns the slot for name, creating it on first use. It
// fails if name was registered with a different function type.
func Register[F any](table *Table, name string) (*Slot[F], error) {
	table.mu.Lock()
	defer table.mu.Unlock()

	if existing, ok := table.slots[name]; ok {
		slot, ok := existing.(*Slot[F])
		if !ok {
			return nil, fmt.Errorf("symhook: slot %s registered with type %T", name, existing)
		}
		return slot, nil
	}
	slot := &Slot[F]{name: name}
	table.slots[name] = slot
	return slot, nil
}

// Names lists registered identities in sorted order.
func (t *Table) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, 0, len(t.slots))
	for name := range t.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SymbolID is the canonical table key for a symbol in a module.
func SymbolID(module, symbol string) string {
	return module + "!" + symbol
}
