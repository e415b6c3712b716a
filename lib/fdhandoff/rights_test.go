// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package fdhandoff

import (
	"errors"
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

// rawPipe returns both ends of a pipe as descriptors. Ends still open
// when the test finishes are closed then.
func rawPipe(t *testing.T) (int, int) {
	t.Helper()
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func isOpen(fd int) bool {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	return !errors.Is(err, unix.EBADF)
}

func header(oob []byte) *unix.Cmsghdr {
	return (*unix.Cmsghdr)(unsafe.Pointer(&oob[0]))
}

func TestParseRights(t *testing.T) {
	tests := []struct {
		name string
		// build returns control data in a buffer sized for one
		// descriptor, the recvmsg length and flags, and the descriptors
		// that data carries.
		build func(first, second int) (oob []byte, oobn, flags int)
		// closed lists which of first and second a rejection must close.
		closed []bool
	}{
		{
			name: "truncated",
			build: func(first, _ int) ([]byte, int, int) {
				oob := unix.UnixRights(first)
				return oob, len(oob), unix.MSG_CTRUNC
			},
			closed: []bool{true, false},
		},
		{
			name: "short control length",
			build: func(first, _ int) ([]byte, int, int) {
				oob := unix.UnixRights(first)
				return oob, unix.CmsgLen(0), 0
			},
			closed: []bool{false, false},
		},
		{
			name: "wrong level",
			build: func(first, _ int) ([]byte, int, int) {
				oob := unix.UnixRights(first)
				header(oob).Level = unix.SOL_IP
				return oob, len(oob), 0
			},
			closed: []bool{false, false},
		},
		{
			name: "wrong type",
			build: func(first, _ int) ([]byte, int, int) {
				oob := unix.UnixRights(first)
				header(oob).Type = unix.SCM_CREDENTIALS
				return oob, len(oob), 0
			},
			closed: []bool{false, false},
		},
		{
			name: "length without descriptor",
			build: func(first, _ int) ([]byte, int, int) {
				oob := unix.UnixRights(first)
				header(oob).SetLen(unix.CmsgLen(0))
				return oob, len(oob), 0
			},
			closed: []bool{false, false},
		},
		{
			name: "length past buffer",
			build: func(first, _ int) ([]byte, int, int) {
				oob := unix.UnixRights(first)
				header(oob).SetLen(len(oob) + 8)
				return oob, len(oob), 0
			},
			closed: []bool{false, false},
		},
		{
			name: "two descriptors",
			build: func(first, second int) ([]byte, int, int) {
				oob := unix.UnixRights(first, second)
				return oob, len(oob), 0
			},
			closed: []bool{true, true},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			first, second := rawPipe(t)
			oob, oobn, flags := test.build(first, second)
			if len(oob) != unix.CmsgSpace(4) {
				t.Fatalf("control buffer is %d bytes, want %d", len(oob), unix.CmsgSpace(4))
			}

			fd, err := parseRights(oob, oobn, flags)
			if err == nil {
				t.Fatalf("parseRights() = %d, want an error", fd)
			}
			if fd != -1 {
				t.Errorf("parseRights() fd = %d on error, want -1", fd)
			}
			for index, descriptor := range []int{first, second} {
				if open := isOpen(descriptor); open == test.closed[index] {
					t.Errorf("descriptor %d open = %v after rejection, want %v", index, open, !test.closed[index])
				}
			}
		})
	}
}

func TestParseRights_Accepts(t *testing.T) {
	first, _ := rawPipe(t)
	oob := unix.UnixRights(first)

	fd, err := parseRights(oob, len(oob), 0)
	if err != nil {
		t.Fatalf("parseRights() error: %v", err)
	}
	if fd != first {
		t.Errorf("parseRights() = %d, want %d", fd, first)
	}
	if !isOpen(first) {
		t.Error("accepted descriptor was closed")
	}
}
