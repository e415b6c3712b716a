// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"bytes"
	"testing"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "value and line break removed",
			input: "--compiler-filter=speed\n--inline-max-code-units=0\n--debuggable\n",
			want:  "--compiler-filter=speed\n--inline-max-code-units=--debuggable\n",
		},
		{
			name:  "marker at start",
			input: "--inline-max-code-units=42\ntail",
			want:  "--inline-max-code-units=tail",
		},
		{
			name:  "marker at end",
			input: "head\n--inline-max-code-units=7\n",
			want:  "head\n--inline-max-code-units=",
		},
		{
			name:  "empty value",
			input: "a--inline-max-code-units=\nb",
			want:  "a--inline-max-code-units=b",
		},
		{
			name:  "no marker",
			input: "--compiler-filter=speed\n",
			want:  "--compiler-filter=speed\n",
		},
		{
			name:  "unterminated marker",
			input: "head\n--inline-max-code-units=0",
			want:  "head\n--inline-max-code-units=0",
		},
		{
			name:  "only first occurrence",
			input: "--inline-max-code-units=0\nmid\n--inline-max-code-units=1\n",
			want:  "--inline-max-code-units=mid\n--inline-max-code-units=1\n",
		},
		{
			name:  "empty buffer",
			input: "",
			want:  "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := []byte(test.input)
			n := Redact(buf, []byte(Marker))
			if got := string(buf[:n]); got != test.want {
				t.Errorf("Redact(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestRedact_LengthReducedByValueAndLineBreak(t *testing.T) {
	value := "12345"
	before := []byte("prefix bytes\x00\x01")
	after := []byte("\x02suffix bytes")
	var input []byte
	input = append(input, before...)
	input = append(input, Marker...)
	input = append(input, value...)
	input = append(input, '\n')
	input = append(input, after...)

	n := Redact(input, []byte(Marker))

	removed := len(value) + 1
	if n != len(input)-removed {
		t.Fatalf("length = %d, want %d", n, len(input)-removed)
	}
	var want []byte
	want = append(want, before...)
	want = append(want, Marker...)
	want = append(want, after...)
	if !bytes.Equal(input[:n], want) {
		t.Errorf("content = %q, want %q", input[:n], want)
	}
}

func TestRedact_ShortMarkerKeepsLines(t *testing.T) {
	buf := []byte("a\n--inline-max-code-units=5\nb")
	n := Redact(buf, []byte(Marker))
	if n != len(buf)-2 {
		t.Fatalf("length = %d, want %d", n, len(buf)-2)
	}
	if got := string(buf[:n]); got != "a\n--inline-max-code-units=b" {
		t.Errorf("content = %q", got)
	}
}

func TestFind_SpanStartsAfterMarker(t *testing.T) {
	buf := []byte("x" + Marker + "12\ny")
	span, ok := Find(buf, []byte(Marker))
	if !ok {
		t.Fatal("Find() found nothing")
	}
	if span.Start != 1+len(Marker) || span.End != 1+len(Marker)+3 {
		t.Errorf("span = [%d, %d), want [%d, %d)", span.Start, span.End, 1+len(Marker), 1+len(Marker)+3)
	}
}

func TestFind_LineBreakOutsideBuffer(t *testing.T) {
	backing := []byte("--inline-max-code-units=0\n")
	// The valid region ends before the line break.
	if _, ok := Find(backing[:len(backing)-1], []byte(Marker)); ok {
		t.Fatal("Find matched a line break outside the valid region")
	}
}

func TestFind_EmptyMarker(t *testing.T) {
	if _, ok := Find([]byte("anything\n"), nil); ok {
		t.Fatal("Find matched an empty marker")
	}
}
