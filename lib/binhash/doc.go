// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content hashing for the native
// libraries the wrapper delegates to. The probe reports the digest of
// the libart.so it would load so operators can tell which ART build a
// device is running without pulling the file.
//
//   - [HashFile] streams a file through BLAKE3 with constant memory
//   - [FormatDigest] renders a digest as lowercase hex
//   - [ParseDigest] parses the hex form back, validating length
package binhash
