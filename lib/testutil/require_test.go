// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type recorder struct {
	message string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.message = fmt.Sprintf(format, args...)
	panic(r)
}

func capture(fn func()) (message string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			message = recovered.(*recorder).message
		}
	}()
	fn()
	return ""
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 5
	if got := RequireReceive(t, ch, time.Second, "value"); got != 5 {
		t.Errorf("RequireReceive() = %d, want 5", got)
	}
}

func TestRequireReceive_Timeout(t *testing.T) {
	r := &recorder{}
	message := capture(func() {
		RequireReceive(r, make(chan int), time.Millisecond, "peer %s", "reply")
	})
	if !strings.Contains(message, "timed out") || !strings.Contains(message, "peer reply") {
		t.Errorf("failure message = %q", message)
	}
}

func TestRequireReceive_Closed(t *testing.T) {
	ch := make(chan int)
	close(ch)
	r := &recorder{}
	message := capture(func() { RequireReceive(r, ch, time.Second) })
	if !strings.Contains(message, "closed") {
		t.Errorf("failure message = %q", message)
	}
}

func TestUniqueID(t *testing.T) {
	first := UniqueID("sock")
	second := UniqueID("sock")
	if first == second || !strings.HasPrefix(first, "sock-") {
		t.Errorf("UniqueID() = %q, %q", first, second)
	}
}
