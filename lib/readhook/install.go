// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package readhook

import (
	"errors"
	"fmt"

	"github.com/bocchi810/LSPosed/lib/symhook"
)

// ErrNothingInstalled means no hook could be installed.
var ErrNothingInstalled = errors.New("readhook: no import slot patched")

// Install publishes original into config.Original, builds the
// interceptor, and then patches each hook to replacement, in that
// order, so the original is always available by the time a patch can
// route calls into the interceptor. A hook that fails is logged and
// skipped; Install fails only when none succeeded. The returned
// interceptor is in StateInstalled; the caller activates it once it is
// reachable from replacement.
func Install(hooks []*symhook.Hook, replacement uintptr, original ReadFunc, config Config) (*Interceptor, error) {
	interceptor, err := New(config)
	if err != nil {
		return nil, err
	}
	if err := config.Original.Publish(original); err != nil {
		return nil, fmt.Errorf("publishing original %s: %w", config.Original.Name(), err)
	}

	installed := 0
	var failures []error
	for _, hook := range hooks {
		if err := hook.Install(replacement); err != nil {
			interceptor.logger.Warn("hook not installed", "module", hook.Module, "symbol", hook.Symbol, "error", err)
			failures = append(failures, err)
			continue
		}
		installed++
	}
	if installed == 0 {
		return nil, errors.Join(append([]error{ErrNothingInstalled}, failures...)...)
	}
	return interceptor, nil
}
