// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/fileio/lib/codec"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.BufferSize != 4096 {
		t.Errorf("expected buffer_size=4096, got %d", cfg.BufferSize)
	}
	if timeout, err := cfg.TimeoutDuration(); err != nil || timeout != -1 {
		t.Errorf("expected blocking timeout, got %v, %v", timeout, err)
	}
	if cfg.Trace.Capacity != 4096 || cfg.Trace.Compression != "zstd" {
		t.Errorf("unexpected trace defaults: %+v", cfg.Trace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when FILEIO_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "FILEIO_CONFIG environment variable not set") {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestLoad_WithEnvironmentVariable(t *testing.T) {
	path := writeConfig(t, "fileio.yaml", "buffer_size: 512\n")
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.BufferSize != 512 {
		t.Errorf("expected buffer_size=512, got %d", cfg.BufferSize)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeConfig(t, "fileio.yaml", `
buffer_size: 0
timeout: 250ms
shared: true
log:
  level: debug
  format: json
trace:
  capacity: 10
  compression: lz4
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.BufferSize != 0 {
		t.Errorf("expected buffer_size=0 to override the default, got %d", cfg.BufferSize)
	}
	if timeout, _ := cfg.TimeoutDuration(); timeout != 250*time.Millisecond {
		t.Errorf("expected timeout=250ms, got %v", timeout)
	}
	if !cfg.Shared {
		t.Error("expected shared=true")
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", level)
	}
	if compression, _ := cfg.TraceCompression(); compression != codec.CompressionLZ4 {
		t.Errorf("expected lz4, got %v", compression)
	}
	// Unset keys keep their defaults.
	if cfg.Trace.Capacity != 10 || cfg.Log.Format != "json" {
		t.Errorf("unexpected values: %+v", cfg)
	}
}

func TestLoadFile_JSONC(t *testing.T) {
	path := writeConfig(t, "fileio.jsonc", `{
	// Small buffer for log tailing.
	"buffer_size": 128,
	"trace": {
		"path": "/tmp/trace.fiot", /* inline comment */
	},
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.BufferSize != 128 || cfg.Trace.Path != "/tmp/trace.fiot" {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Trace.Compression != "zstd" {
		t.Errorf("expected default compression preserved, got %q", cfg.Trace.Compression)
	}
}

func TestLoadFile_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "empty.yaml", ""))
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.BufferSize != 4096 {
		t.Errorf("expected default buffer size, got %d", cfg.BufferSize)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown yaml key", "bad.yaml", "buffer_sise: 10\n"},
		{"unknown json key", "bad.json", `{"shard": true}`},
		{"malformed yaml", "bad.yaml", "buffer_size: [\n"},
		{"wrong type", "bad.yaml", "buffer_size: lots\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, test.file, test.content)); err == nil {
				t.Error("LoadFile accepted invalid config")
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile accepted a missing file")
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("FILEIO_TEST_DIR", "/from/env")
	vars := map[string]string{"HOME": "/home/test"}

	tests := []struct {
		input string
		want  string
	}{
		{"${HOME}/trace", "/home/test/trace"},
		{"${FILEIO_TEST_DIR}/trace", "/from/env/trace"},
		{"${FILEIO_TEST_UNSET:-/fallback}/trace", "/fallback/trace"},
		{"${FILEIO_TEST_UNSET}/trace", "/trace"},
		{"/plain/path", "/plain/path"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestLoadFile_ExpandsTracePath(t *testing.T) {
	t.Setenv("HOME", "/home/tracer")
	cfg, err := LoadFile(writeConfig(t, "fileio.yaml", "trace:\n  path: ${HOME}/traces/run.fiot\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trace.Path != "/home/tracer/traces/run.fiot" {
		t.Errorf("trace.path = %q", cfg.Trace.Path)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.BufferSize = -1
	cfg.Timeout = "soon"
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Trace.Capacity = 0
	cfg.Trace.Compression = "gzip"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted an invalid config")
	}
	for _, fragment := range []string{"buffer_size", "timeout", "log.level", "log.format", "trace.capacity", "trace.compression"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("Validate error does not mention %s: %v", fragment, err)
		}
	}
}

func TestTimeoutDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", -1},
		{"-1", -1},
		{"-5s", -1},
		{"0", 0},
		{"1.5s", 1500 * time.Millisecond},
	}
	for _, test := range tests {
		cfg := &Config{Timeout: test.value}
		got, err := cfg.TimeoutDuration()
		if err != nil || got != test.want {
			t.Errorf("TimeoutDuration(%q) = %v, %v; want %v", test.value, got, err, test.want)
		}
	}
}
