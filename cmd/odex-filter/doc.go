// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Odex-filter is a shared library, built with -buildmode=c-shared, that
// is loaded into dex2oat. Once its Go initializers run, the library
// rewrites the read import slot of every other loaded module to point
// at lspd_read, which removes the value of --inline-max-code-units=
// from odex files served to untrusted callers. libc's own code is
// never modified.
//
// In c-shared mode the loader's constructor only starts the Go
// runtime; package initialization, and with it the install, runs on a
// runtime thread afterwards. dlopen can therefore return, and the host
// can call read, before the slots are patched. Reads made in that
// window are not filtered. lspd_read itself falls through to the raw
// system call until the interceptor is published.
//
// Failing to install is logged and otherwise ignored: the host keeps
// running with the unpatched read.
package main
