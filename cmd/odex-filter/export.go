// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package main

/*
#include <stddef.h>
#include <sys/types.h>

void lspd_set_errno(int value);
*/
import "C"

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

//export lspd_read
func lspd_read(fd C.int, buf unsafe.Pointer, count C.size_t) C.ssize_t {
	var data []byte
	if count > 0 {
		data = unsafe.Slice((*byte)(buf), int(count))
	}

	var n int
	var err error
	if interceptor := active.Load(); interceptor != nil {
		n, err = interceptor.Read(int(fd), data)
	} else {
		n, err = unix.Read(int(fd), data)
	}
	if err != nil {
		var errno unix.Errno
		if !errors.As(err, &errno) {
			errno = unix.EIO
		}
		C.lspd_set_errno(C.int(errno))
		return -1
	}
	return C.ssize_t(n)
}
