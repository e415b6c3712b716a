// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"os"
)

// Exit codes shared by the binaries.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Fatal writes "error: err" to stderr and exits with ExitFailure. Use
// it when the structured logger is not available.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(ExitFailure)
}

// ExitCode maps a delegated call's success flag to a process status.
func ExitCode(succeeded bool) int {
	if succeeded {
		return ExitSuccess
	}
	return ExitFailure
}
