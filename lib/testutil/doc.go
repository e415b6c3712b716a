// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireSend] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that tests talking
// to a mock peer goroutine cannot hang forever.
//
// [UniqueID] generates monotonically increasing identifiers. Tests use
// it to pick abstract socket names that do not collide inside one test
// binary.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
