// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package symhook

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Mapping is one line of /proc/<pid>/maps.
type Mapping struct {
	Start  uintptr
	End    uintptr
	Perms  string
	Offset uint64
	Path   string
}

// Contains reports whether addr falls within the mapping.
func (m Mapping) Contains(addr uintptr) bool {
	return addr >= m.Start && addr < m.End
}

// Prot returns the mapping's protection as PROT_* bits.
func (m Mapping) Prot() int {
	prot := unix.PROT_NONE
	if strings.Contains(m.Perms, "r") {
		prot |= unix.PROT_READ
	}
	if strings.Contains(m.Perms, "w") {
		prot |= unix.PROT_WRITE
	}
	if strings.Contains(m.Perms, "x") {
		prot |= unix.PROT_EXEC
	}
	return prot
}

// Executable reports whether the mapping holds code.
func (m Mapping) Executable() bool {
	return m.Prot()&unix.PROT_EXEC != 0
}

// ReadMaps parses the maps file at path.
func ReadMaps(path string) ([]Mapping, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	mappings, err := ParseMaps(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return mappings, nil
}

// ParseMaps parses maps-formatted text:
//
//	start-end perms offset dev inode [pathname]
//
// Pathnames containing spaces are preserved.
func ParseMaps(r io.Reader) ([]Mapping, error) {
	var mappings []Mapping
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 5 {
			return nil, fmt.Errorf("malformed maps line %q", line)
		}

		startText, endText, ok := strings.Cut(fields[0], "-")
		if !ok {
			return nil, fmt.Errorf("malformed address range %q", fields[0])
		}
		start, err := strconv.ParseUint(startText, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing start address %q: %w", startText, err)
		}
		end, err := strconv.ParseUint(endText, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing end address %q: %w", endText, err)
		}
		offset, err := strconv.ParseUint(fields[2], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing offset %q: %w", fields[2], err)
		}

		mapping := Mapping{
			Start:  uintptr(start),
			End:    uintptr(end),
			Perms:  fields[1],
			Offset: offset,
		}
		if len(fields) > 5 {
			mapping.Path = strings.Join(fields[5:], " ")
		}
		mappings = append(mappings, mapping)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mappings, nil
}
