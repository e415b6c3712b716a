// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package dlentry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by FindLibrary when no directory holds name.
var ErrNotFound = errors.New("library not found")

// FindLibrary returns the first regular file called name in the
// colon-separated searchPath. A name containing a slash is checked as
// given. This mirrors the directories the loader consults through
// LD_LIBRARY_PATH; it does not model the loader's other search rules.
func FindLibrary(name, searchPath string) (string, error) {
	if strings.Contains(name, "/") {
		if isRegular(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	for _, directory := range filepath.SplitList(searchPath) {
		if directory == "" {
			continue
		}
		candidate := filepath.Join(directory, name)
		if isRegular(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %q", ErrNotFound, name, searchPath)
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
