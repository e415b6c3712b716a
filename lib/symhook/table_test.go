// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package symhook

import (
	"errors"
	"sync"
	"testing"
)

type readFunc func(fd int, buf []byte) (int, error)

func TestSlot_PublishOnce(t *testing.T) {
	table := NewTable()
	slot, err := Register[readFunc](table, SymbolID("libc.so", "read"))
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, ok := slot.Load(); ok {
		t.Fatal("Load() succeeded before Publish")
	}

	first := func(fd int, buf []byte) (int, error) { return 1, nil }
	second := func(fd int, buf []byte) (int, error) { return 2, nil }

	if err := slot.Publish(first); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if err := slot.Publish(second); !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("second Publish() error = %v, want ErrAlreadyPublished", err)
	}

	fn, ok := slot.Load()
	if !ok {
		t.Fatal("Load() failed after Publish")
	}
	if n, _ := fn(0, nil); n != 1 {
		t.Errorf("published function returned %d, want 1", n)
	}
}

func TestSlot_ConcurrentReaders(t *testing.T) {
	table := NewTable()
	slot, _ := Register[readFunc](table, "libc.so!read")
	if err := slot.Publish(func(fd int, buf []byte) (int, error) { return fd, nil }); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	var group sync.WaitGroup
	for index := 0; index < 16; index++ {
		index := index
		group.Add(1)
		go func() {
			defer group.Done()
			fn, ok := slot.Load()
			if !ok {
				t.Error("Load() failed")
				return
			}
			if n, _ := fn(index, nil); n != index {
				t.Errorf("fn(%d) = %d", index, n)
			}
		}()
	}
	group.Wait()
}

func TestRegister_SameNameSameSlot(t *testing.T) {
	table := NewTable()
	first, _ := Register[readFunc](table, "libc.so!read")
	second, _ := Register[readFunc](table, "libc.so!read")
	if first != second {
		t.Error("Register() returned a new slot for an existing name")
	}
	if first.Name() != "libc.so!read" {
		t.Errorf("Name() = %q", first.Name())
	}
}

func TestRegister_TypeMismatch(t *testing.T) {
	table := NewTable()
	if _, err := Register[readFunc](table, "libart.so!dex2oat"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, err := Register[func() bool](table, "libart.so!dex2oat"); err == nil {
		t.Fatal("Register() accepted a different type for an existing name")
	}
}

func TestTable_Names(t *testing.T) {
	table := NewTable()
	Register[readFunc](table, "b")
	Register[readFunc](table, "a")
	names := table.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
}
