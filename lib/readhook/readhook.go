// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package readhook implements the filtering replacement for read(2).
//
// An [Interceptor] wraps the original read primitive. Reads from
// descriptors whose path ends in the target suffix, made by a process
// that is not on the allow-list, have the value and line break after
// the first marker stripped before the data is returned. Every other read is passed through
// untouched, so its bytes and length are those of the original.
//
// The interceptor keeps no mutable state beyond its lifecycle state.
// It is safe to call Read from any number of threads once the
// original is published.
package readhook

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/bocchi810/LSPosed/lib/logging"
	"github.com/bocchi810/LSPosed/lib/procident"
	"github.com/bocchi810/LSPosed/lib/redact"
	"github.com/bocchi810/LSPosed/lib/symhook"
)

// ReadFunc is the shape of the read primitive.
type ReadFunc func(fd int, buf []byte) (int, error)

// ErrNoOriginal is returned by Read when the original primitive was
// never published.
var ErrNoOriginal = errors.New("readhook: original read not published")

// DefaultSuffix is the path suffix of compiled odex artifacts.
const DefaultSuffix = ".odex"

// State is the interceptor lifecycle.
type State int32

const (
	// StateInstalled means the interceptor exists and its original is
	// registered, but the live symbol does not point at it yet.
	StateInstalled State = iota
	// StateActive means the replacement has been patched in.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInstalled:
		return "installed"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Config configures an Interceptor.
type Config struct {
	// Original is the slot holding the unmodified read primitive.
	Original *symhook.Slot[ReadFunc]

	// Resolver identifies descriptors and processes.
	Resolver procident.Resolver

	// AllowList names callers that are never filtered.
	AllowList procident.AllowList

	// Suffix selects target files. Empty means DefaultSuffix.
	Suffix string

	// Marker is the token to strip. Empty means redact.Marker.
	Marker string

	// PID returns the caller's pid. Nil means os.Getpid.
	PID func() int

	// Logger receives debug decisions. Nil discards them.
	Logger *slog.Logger
}

// Interceptor is the replacement read.
type Interceptor struct {
	original  *symhook.Slot[ReadFunc]
	resolver  procident.Resolver
	allowList procident.AllowList
	suffix    string
	marker    []byte
	pid       func() int
	logger    *slog.Logger
	state     atomic.Int32
}

// New returns an interceptor in StateInstalled.
func New(config Config) (*Interceptor, error) {
	if config.Original == nil {
		return nil, errors.New("readhook: original slot is required")
	}
	if config.Resolver == nil {
		return nil, errors.New("readhook: resolver is required")
	}
	interceptor := &Interceptor{
		original:  config.Original,
		resolver:  config.Resolver,
		allowList: config.AllowList,
		suffix:    config.Suffix,
		marker:    []byte(config.Marker),
		pid:       config.PID,
		logger:    config.Logger,
	}
	if interceptor.suffix == "" {
		interceptor.suffix = DefaultSuffix
	}
	if len(interceptor.marker) == 0 {
		interceptor.marker = []byte(redact.Marker)
	}
	if interceptor.pid == nil {
		interceptor.pid = os.Getpid
	}
	if interceptor.logger == nil {
		interceptor.logger = logging.Discard()
	}
	return interceptor, nil
}

// State returns the lifecycle state.
func (i *Interceptor) State() State {
	return State(i.state.Load())
}

// Activate records that the replacement is live.
func (i *Interceptor) Activate() {
	i.state.Store(int32(StateActive))
}

// Read has the contract of the original read primitive.
func (i *Interceptor) Read(fd int, buf []byte) (int, error) {
	original, ok := i.original.Load()
	if !ok {
		return -1, ErrNoOriginal
	}
	if !i.shouldFilter(fd) {
		return original(fd, buf)
	}

	n, err := original(fd, buf)
	if n <= 0 {
		return n, err
	}
	reduced := redact.Redact(buf[:n], i.marker)
	if reduced != n {
		i.logger.Debug("redacted odex read", "fd", fd, "removed", n-reduced)
	}
	return reduced, err
}

// shouldFilter decides whether fd's read is filtered. Identity
// failures count as untrusted.
func (i *Interceptor) shouldFilter(fd int) bool {
	path, err := i.resolver.DescriptorPath(fd)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(path, i.suffix) {
		return false
	}

	pid := i.pid()
	identity, err := i.resolver.Identity(pid)
	if err != nil {
		i.logger.Debug("caller identity unreadable, filtering", "fd", fd, "path", path, "pid", pid, "error", err)
		return true
	}
	if i.allowList.Trusted(identity) {
		i.logger.Debug("trusted caller, passing through", "fd", fd, "path", path, "cmdline", identity.Cmdline)
		return false
	}
	i.logger.Debug("filtering odex read", "fd", fd, "path", path, "cmdline", identity.Cmdline)
	return true
}
