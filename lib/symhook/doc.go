// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package symhook redirects one module's calls to an imported function.
//
// A [Hook] resolves the import slot (the GOT entry the dynamic linker
// fills for a JUMP_SLOT or GLOB_DAT relocation) through which a loaded
// module calls a symbol, grants write access to the page holding that
// slot, swaps the pointer-sized word for a replacement, and returns
// the page to the protection its mapping had. The previous word, the
// bound address of the real function, is kept as [Hook.Original]. A
// Hook installs at most once and cannot be removed.
//
// Install refuses any address inside an executable mapping with
// [ErrExecutableSlot], and any address outside every mapping with
// [ErrUnmapped]. A function's definition is code, not a pointer;
// [ProcResolver.Definition] returns it for inspection only.
//
// The pieces are separable so they can be tested without touching real
// library code:
//
//   - [Resolver] turns (module, symbol) into a slot address.
//     [ProcResolver] does this from /proc/self/maps and the module's
//     ELF relocation and symbol tables. [ProcResolver.Importers] lists
//     every loaded module that imports a symbol.
//   - [PageWindow] and [Protector] carry out the scoped permission
//     change. [PageWindow.WithWritable] always restores protection, even
//     when the store faults, and never adds execute permission.
//   - [Table] and [Slot] publish the Go-side function references the
//     replacement calls through. Each slot is written once during
//     initialization and read without locks afterwards.
//
// Installation must happen before any other thread can call the target
// symbol. Nothing here enforces that ordering.
package symhook
