// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command tree behind lspd-probe: nested
// commands, pflag-based flag sets, generated help, and typo
// suggestions for unknown commands and flags.
package cli
