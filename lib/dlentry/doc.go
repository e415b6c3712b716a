// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package dlentry loads a shared library with the platform dynamic
// loader and calls a main-style entry point inside it.
//
// The entry point has the C signature bool(int argc, char **argv). Call
// builds argv on the C heap with a trailing NULL, the way a process
// receives its own arguments, and frees it when the entry returns.
//
// dlerror state is per thread, so every loader call that may fail is
// made with the goroutine locked to its OS thread.
package dlentry
