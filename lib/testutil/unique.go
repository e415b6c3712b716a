// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer. Include the pid in prefix when the
// name must also be unique across concurrently running test binaries,
// as abstract socket names are.
//
//	token := testutil.UniqueID(fmt.Sprintf("handoff-%d", os.Getpid()))
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}
