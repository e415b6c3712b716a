// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the binaries. It
// centralizes the raw stderr write used before or instead of a
// structured logger, and the mapping from outcomes to exit codes.
package process
