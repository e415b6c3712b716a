// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package cfixture links a small C caller of libc's getpid into a test
// binary, so the binary carries a real import slot for it.
package cfixture

/*
#include <sys/types.h>
#include <unistd.h>

static pid_t fixture_fake_getpid(void) { return 424242; }

static pid_t fixture_getpid(void) { return getpid(); }

static void *fixture_fake_getpid_address(void) { return (void *)fixture_fake_getpid; }
*/
import "C"

// FakePID is what the replacement returned by FakeGetpidAddress reports.
const FakePID = 424242

// Getpid calls getpid through the binary's import slot.
func Getpid() int {
	return int(C.fixture_getpid())
}

// FakeGetpidAddress returns the entry of a C function with getpid's
// signature that returns FakePID.
func FakeGetpidAddress() uintptr {
	return uintptr(C.fixture_fake_getpid_address())
}
