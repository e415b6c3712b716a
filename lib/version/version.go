// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"strconv"
)

// These variables are set via -ldflags at build time.
var (
	GitCommit = "unknown"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// Info returns the one-line version string for --version output.
func Info() string {
	return fmt.Sprintf("%s (%s, %s)", Version, GitCommit, BuildTime)
}

// Full adds the Go toolchain, platform and word size, which decide
// which handoff capability the binary requests.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s (%s-bit)",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH, strconv.Itoa(strconv.IntSize))
}
