// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package fdhandoff obtains a borrowed file descriptor from the
// privileged peer that serves dex2oat wrappers.
//
// The exchange is one fixed-shape request and response over an abstract
// Unix stream socket:
//
//	client -> peer   int32 capability code, native endian
//	peer   -> client int32 echo, carrying one SCM_RIGHTS descriptor
//	peer   -> client int32 acknowledgement
//
// The capability code is (is64 << 1) | isDebug and lets the peer pick
// the matching binary flavour. The descriptor is validated strictly:
// anything other than a single SCM_RIGHTS message holding exactly one
// descriptor is reported as "no descriptor" (FD -1) rather than an
// error. Only a failed connection is an error.
package fdhandoff
