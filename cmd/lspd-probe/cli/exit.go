// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError asks main to exit with Code without printing anything
// further; the command has already reported the outcome.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns Code.
func (e *ExitError) ExitCode() int {
	return e.Code
}
