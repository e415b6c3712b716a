// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package procident

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultMaxLength matches PATH_MAX, the size of the fixed buffers the
// identity checks historically used.
const DefaultMaxLength = 4096

// ErrEmptyIdentity is returned when a process's cmdline yields no bytes,
// which happens for kernel threads and exiting processes.
var ErrEmptyIdentity = errors.New("procident: empty command line")

// Identity is a snapshot of a process's command-line identity.
type Identity struct {
	PID     int
	Cmdline string
}

// Resolver resolves process identities and descriptor targets.
type Resolver interface {
	// Identity returns the command-line identity of pid.
	Identity(pid int) (Identity, error)

	// DescriptorPath returns the path the calling process's fd refers to.
	DescriptorPath(fd int) (string, error)
}

// Procfs is a Resolver backed by a proc filesystem.
type Procfs struct {
	// Root is the procfs mount point. Empty means "/proc".
	Root string

	// MaxLength bounds every string read. Zero means DefaultMaxLength.
	MaxLength int
}

func (p *Procfs) root() string {
	if p.Root == "" {
		return "/proc"
	}
	return p.Root
}

func (p *Procfs) maxLength() int {
	if p.MaxLength <= 0 {
		return DefaultMaxLength
	}
	return p.MaxLength
}

// Identity reads the first argument of pid's command line. At most
// MaxLength bytes are read and the result is cut at the first NUL and
// truncated to MaxLength-1 bytes.
func (p *Procfs) Identity(pid int) (Identity, error) {
	path := filepath.Join(p.root(), strconv.Itoa(pid), "cmdline")
	file, err := os.Open(path)
	if err != nil {
		return Identity{}, fmt.Errorf("procident: opening %s: %w", path, err)
	}
	defer file.Close()

	buffer := make([]byte, p.maxLength())
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Identity{}, fmt.Errorf("procident: reading %s: %w", path, err)
	}
	if n == 0 {
		return Identity{}, fmt.Errorf("procident: pid %d: %w", pid, ErrEmptyIdentity)
	}

	data := buffer[:n]
	if end := bytes.IndexByte(data, 0); end >= 0 {
		data = data[:end]
	}
	return Identity{
		PID:     pid,
		Cmdline: Truncate(string(data), p.maxLength()-1),
	}, nil
}

// DescriptorPath resolves <root>/self/fd/<fd>.
func (p *Procfs) DescriptorPath(fd int) (string, error) {
	link := filepath.Join(p.root(), "self", "fd", strconv.Itoa(fd))
	target, err := os.Readlink(link)
	if err != nil {
		return "", fmt.Errorf("procident: resolving fd %d: %w", fd, err)
	}
	return Truncate(target, p.maxLength()-1), nil
}

// Truncate bounds s to at most max bytes. A negative max is treated as
// zero.
func Truncate(s string, max int) string {
	if max < 0 {
		max = 0
	}
	if len(s) > max {
		return s[:max]
	}
	return s
}
