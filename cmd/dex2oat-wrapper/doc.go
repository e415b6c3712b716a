// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Dex2oat-wrapper is installed in place of the dex2oat compiler. It
// borrows a descriptor from the LSPosed daemon over an abstract socket,
// removes denied arguments from its own command line, and hands the
// rest to the real dex2oat entry point in libart.so. Its exit status is
// the entry point's result.
//
// The wrapper accepts no flags of its own: every argument belongs to
// dex2oat. Configuration comes from the file named by
// LSPOSED_DEX2OAT_CONFIG, if set.
package main
