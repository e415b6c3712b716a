// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package readhook

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bocchi810/LSPosed/lib/procident"
	"github.com/bocchi810/LSPosed/lib/redact"
	"github.com/bocchi810/LSPosed/lib/symhook"
)

// fakeResolver maps descriptors to paths and pids to command lines.
type fakeResolver struct {
	paths    map[int]string
	cmdlines map[int]string
}

func (r *fakeResolver) DescriptorPath(fd int) (string, error) {
	path, ok := r.paths[fd]
	if !ok {
		return "", fmt.Errorf("fd %d: no such descriptor", fd)
	}
	return path, nil
}

func (r *fakeResolver) Identity(pid int) (procident.Identity, error) {
	cmdline, ok := r.cmdlines[pid]
	if !ok {
		return procident.Identity{}, procident.ErrEmptyIdentity
	}
	return procident.Identity{PID: pid, Cmdline: cmdline}, nil
}

// fileSet serves fixed contents per descriptor, like a read primitive.
type fileSet map[int][]byte

func (f fileSet) read(fd int, buf []byte) (int, error) {
	data, ok := f[fd]
	if !ok {
		return -1, errors.New("EBADF")
	}
	return copy(buf, data), nil
}

const odexContent = "oat\n--compiler-filter=speed\n--inline-max-code-units=0\n--debuggable\n"

func newInterceptor(t *testing.T, files fileSet, resolver procident.Resolver, pid int) *Interceptor {
	t.Helper()
	table := symhook.NewTable()
	slot, err := symhook.Register[ReadFunc](table, symhook.SymbolID("libc.so", "read"))
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := slot.Publish(files.read); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	interceptor, err := New(Config{
		Original:  slot,
		Resolver:  resolver,
		AllowList: procident.DefaultAllowList(),
		PID:       func() int { return pid },
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return interceptor
}

func standardSetup() (fileSet, *fakeResolver) {
	files := fileSet{
		3: []byte(odexContent),
		4: []byte(odexContent),
		5: []byte(odexContent),
	}
	resolver := &fakeResolver{
		paths: map[int]string{
			3: "/data/app/com.example/oat/arm64/base.odex",
			4: "/data/app/com.example/oat/arm64/base.vdex",
			5: "/data/app/com.example/base.odex.bak",
		},
		cmdlines: map[int]string{
			100: "com.example.detector",
			200: "com.android.art",
			300: "com.genymotion.tools",
		},
	}
	return files, resolver
}

func TestRead_FiltersUntrustedOdex(t *testing.T) {
	files, resolver := standardSetup()
	interceptor := newInterceptor(t, files, resolver, 100)

	buf := make([]byte, 256)
	n, err := interceptor.Read(3, buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	want := "oat\n--compiler-filter=speed\n--inline-max-code-units=--debuggable\n"
	if got := string(buf[:n]); got != want {
		t.Errorf("Read() = %q, want %q", got, want)
	}
	removed := len("0") + 1
	if n != len(odexContent)-removed {
		t.Errorf("Read() n = %d, want %d", n, len(odexContent)-removed)
	}
}

func TestRead_PassThroughForOtherPaths(t *testing.T) {
	files, resolver := standardSetup()
	interceptor := newInterceptor(t, files, resolver, 100)

	for _, fd := range []int{4, 5} {
		for _, size := range []int{0, 1, 10, len(odexContent), 512} {
			buf := make([]byte, size)
			expected := make([]byte, size)
			wantN, wantErr := files.read(fd, expected)

			n, err := interceptor.Read(fd, buf)
			if n != wantN || (err == nil) != (wantErr == nil) {
				t.Errorf("fd %d size %d: Read() = %d, %v; want %d, %v", fd, size, n, err, wantN, wantErr)
			}
			if !bytes.Equal(buf, expected) {
				t.Errorf("fd %d size %d: buffer differs from original read", fd, size)
			}
		}
	}
}

func TestRead_PassThroughForUnresolvableDescriptor(t *testing.T) {
	files, resolver := standardSetup()
	files[9] = []byte(odexContent)
	interceptor := newInterceptor(t, files, resolver, 100)

	buf := make([]byte, 256)
	n, err := interceptor.Read(9, buf)
	if err != nil || n != len(odexContent) {
		t.Fatalf("Read() = %d, %v; want %d, nil", n, err, len(odexContent))
	}
}

func TestRead_TrustedCallersUnmodified(t *testing.T) {
	for _, pid := range []int{200, 300} {
		files, resolver := standardSetup()
		interceptor := newInterceptor(t, files, resolver, pid)

		buf := make([]byte, 256)
		n, err := interceptor.Read(3, buf)
		if err != nil {
			t.Fatalf("pid %d: Read() error: %v", pid, err)
		}
		if got := string(buf[:n]); got != odexContent {
			t.Errorf("pid %d: Read() = %q, want unmodified", pid, got)
		}
	}
}

func TestRead_UnknownIdentityIsUntrusted(t *testing.T) {
	files, resolver := standardSetup()
	interceptor := newInterceptor(t, files, resolver, 999)

	buf := make([]byte, 256)
	n, _ := interceptor.Read(3, buf)
	if bytes.Contains(buf[:n], []byte(redact.Marker+"0")) {
		t.Errorf("marker value survived for an unidentifiable caller: %q", buf[:n])
	}
}

func TestRead_ShortReadWithUnterminatedMarker(t *testing.T) {
	files, resolver := standardSetup()
	interceptor := newInterceptor(t, files, resolver, 100)

	// The read stops inside the marker's value, before its line break.
	cut := bytes.Index([]byte(odexContent), []byte("0\n")) + 1
	buf := make([]byte, cut)
	n, err := interceptor.Read(3, buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if n != cut || string(buf) != odexContent[:cut] {
		t.Errorf("Read() = %q (%d), want unmodified %q", buf[:n], n, odexContent[:cut])
	}
}

func TestRead_ErrorPropagates(t *testing.T) {
	files, resolver := standardSetup()
	delete(files, 3)
	interceptor := newInterceptor(t, files, resolver, 100)

	n, err := interceptor.Read(3, make([]byte, 16))
	if n != -1 || err == nil {
		t.Errorf("Read() = %d, %v; want -1 and an error", n, err)
	}
}

func TestRead_WithoutOriginal(t *testing.T) {
	table := symhook.NewTable()
	slot, _ := symhook.Register[ReadFunc](table, "libc.so!read")
	interceptor, err := New(Config{Original: slot, Resolver: &fakeResolver{}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := interceptor.Read(0, nil); !errors.Is(err, ErrNoOriginal) {
		t.Errorf("Read() error = %v, want ErrNoOriginal", err)
	}
}

func TestRead_Concurrent(t *testing.T) {
	files, resolver := standardSetup()
	interceptor := newInterceptor(t, files, resolver, 100)

	var group sync.WaitGroup
	for i := 0; i < 32; i++ {
		group.Add(1)
		go func() {
			defer group.Done()
			buf := make([]byte, 256)
			n, err := interceptor.Read(3, buf)
			if err != nil || bytes.Contains(buf[:n], []byte(redact.Marker+"0")) {
				t.Errorf("concurrent Read() = %q, %v", buf[:n], err)
			}
		}()
	}
	group.Wait()
}

func TestState(t *testing.T) {
	files, resolver := standardSetup()
	interceptor := newInterceptor(t, files, resolver, 100)
	if interceptor.State() != StateInstalled {
		t.Errorf("State() = %s, want installed", interceptor.State())
	}
	interceptor.Activate()
	if interceptor.State() != StateActive {
		t.Errorf("State() = %s, want active", interceptor.State())
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Config{Resolver: &fakeResolver{}}); err == nil {
		t.Error("New() accepted a missing original slot")
	}
	table := symhook.NewTable()
	slot, _ := symhook.Register[ReadFunc](table, "libc.so!read")
	if _, err := New(Config{Original: slot}); err == nil {
		t.Error("New() accepted a missing resolver")
	}
}
