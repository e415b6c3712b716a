// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package argvfilter removes denied arguments from a command line before
// it is handed to the real compiler.
package argvfilter

import (
	"log/slog"
	"strings"
)

// Filter returns args without any argument that contains one of deny
// as a substring. Order is preserved and args is not modified. Each
// dropped argument is logged at debug level when logger is non-nil.
//
// Matching is by containment: "--inline-max-code-units=0" also
// drops "--inline-max-code-units=00" and "x--inline-max-code-units=0".
func Filter(args, deny []string, logger *slog.Logger) []string {
	kept := make([]string, 0, len(args))
	for index, arg := range args {
		if rule, denied := matches(arg, deny); denied {
			if logger != nil {
				logger.Debug("excluding argument",
					"index", index,
					"argument", arg,
					"rule", rule,
				)
			}
			continue
		}
		kept = append(kept, arg)
	}
	return kept
}

func matches(arg string, deny []string) (string, bool) {
	for _, rule := range deny {
		if strings.Contains(arg, rule) {
			return rule, true
		}
	}
	return "", false
}
