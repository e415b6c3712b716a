// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package procident

import "strings"

// AllowList names the processes whose reads are never filtered.
type AllowList struct {
	// Exact is compared against the whole command line.
	Exact string

	// Prefix is compared against the first PrefixLength bytes of the
	// command line. PrefixLength is clamped to len(Prefix); zero
	// disables the prefix rule.
	Prefix       string
	PrefixLength int
}

// DefaultAllowList trusts the ART runtime itself and the Genymotion
// tooling family.
func DefaultAllowList() AllowList {
	return AllowList{
		Exact:        "com.android.art",
		Prefix:       "com.genymotion",
		PrefixLength: 12,
	}
}

// Trusted reports whether id bypasses filtering.
func (a AllowList) Trusted(id Identity) bool {
	if a.Exact != "" && id.Cmdline == a.Exact {
		return true
	}
	length := min(a.PrefixLength, len(a.Prefix))
	if length <= 0 {
		return false
	}
	return strings.HasPrefix(id.Cmdline, a.Prefix[:length])
}
