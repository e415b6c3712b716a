// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package main

/*
#include <stddef.h>
#include <sys/types.h>

extern ssize_t lspd_read(int fd, void *buf, size_t count);

static void *lspd_read_address(void) { return (void *)lspd_read; }
*/
import "C"

// replacementAddress returns the C-callable address of lspd_read.
func replacementAddress() uintptr {
	return uintptr(C.lspd_read_address())
}
