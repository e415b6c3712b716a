// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package redact removes the value of a single "marker=value\n" entry
// from a buffer in place, together with its line break. The marker is
// kept. It is used on data read from compiled odex files, where the
// compiler records its command line, to blank one compiler flag before
// the bytes reach the caller.
//
// The redactor only looks at bytes already in the buffer. It performs no
// I/O and never grows the buffer.
package redact
