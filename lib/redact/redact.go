// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package redact

import "bytes"

// Marker is the compiler flag prefix whose value is removed from odex
// reads.
const Marker = "--inline-max-code-units="

// Span is the half-open byte range [Start, End) covering the value
// after a marker and the line break that ends it. The marker itself is
// not part of the span.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Find locates the value of the first occurrence of marker in buf and
// the line break that ends it. It reports false when marker is empty, absent, or
// not followed by a '\n' inside buf. Later occurrences are never
// considered, even when the first one is unterminated.
func Find(buf, marker []byte) (Span, bool) {
	if len(marker) == 0 {
		return Span{}, false
	}
	start := bytes.Index(buf, marker)
	if start < 0 {
		return Span{}, false
	}
	valueStart := start + len(marker)
	newline := bytes.IndexByte(buf[valueStart:], '\n')
	if newline < 0 {
		return Span{}, false
	}
	return Span{Start: valueStart, End: valueStart + newline + 1}, true
}

// Redact removes the value and line break following the first marker
// in buf by shifting the bytes after them left, and returns the new
// valid length. The marker stays in place, directly followed by what
// came after the line break. When nothing is
// found, len(buf) is returned and buf is untouched. Bytes past the
// returned length are left as they were after the shift.
func Redact(buf, marker []byte) int {
	span, ok := Find(buf, marker)
	if !ok {
		return len(buf)
	}
	copy(buf[span.Start:], buf[span.End:])
	return len(buf) - span.Len()
}
