// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWriter_JSON(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buffer bytes.Buffer
	logger := NewWriter(&buffer, false, "wrapper")
	logger.Info("handoff complete", "fd", 5)
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buffer.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["component"] != "wrapper" || record["msg"] != "handoff complete" || record["fd"] != float64(5) {
		t.Errorf("record = %v", record)
	}
}

func TestNewWriter_DebugLevel(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	var buffer bytes.Buffer
	logger := NewWriter(&buffer, true, "odex-filter")
	logger.Debug("visible", "path", "/data/base.odex")

	if !strings.Contains(buffer.String(), "visible") || !strings.Contains(buffer.String(), "component=odex-filter") {
		t.Errorf("text output = %q", buffer.String())
	}
}
