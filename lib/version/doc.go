// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build information for the binaries.
//
// [GitCommit], [BuildTime] and [Version] are injected at build time:
//
//	go build -ldflags "-X github.com/bocchi810/LSPosed/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// They default to "unknown" / "0.1.0-dev" in development builds and
// test runs.
package version
