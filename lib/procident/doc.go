// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package procident identifies the process behind a read and the file
// behind a descriptor, using procfs reflection.
//
// [Resolver] is the seam the read hook consumes. [Procfs] is the live
// implementation: it reads <root>/<pid>/cmdline and resolves
// <root>/self/fd/<fd> links. Tests point Root at a fabricated tree.
//
// All strings are bounded by [Procfs.MaxLength]. Longer values are
// truncated, never rejected: a truncated command line is still a valid
// identity for the allow-list decision.
//
// [AllowList] decides whether an identity bypasses filtering.
package procident
