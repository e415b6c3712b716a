// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Lspd-probe exercises the pieces of the dex2oat wrapper and the odex
// filter one at a time on a live device: the descriptor handoff, the
// redactor, caller identity and trust, symbol resolution, and the
// location and digest of the real compiler library.
package main
