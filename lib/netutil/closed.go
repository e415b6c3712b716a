// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil classifies errors seen on local stream sockets.
package netutil

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// IsPeerClosed reports whether err means the other end went away: EOF,
// a short read cut off by EOF, use of a closed connection, a broken
// pipe, or a reset. The handoff peer is allowed to hang up at any
// point after it has sent the descriptor, so these are not failures.
func IsPeerClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET
	}
	return false
}
