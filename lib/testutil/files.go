// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file named name with content inside a fresh
// t.TempDir() and returns its path.
func WriteFile(t testing.TB, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// RequireContent fails the test unless the file at path holds exactly
// want. Long contents are reported by length and first difference.
func RequireContent(t TB, path string, want []byte) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
		return
	}
	if bytes.Equal(got, want) {
		return
	}
	if len(got) <= 64 && len(want) <= 64 {
		t.Fatalf("%s holds %q, want %q", path, got, want)
		return
	}
	index := 0
	for index < len(got) && index < len(want) && got[index] == want[index] {
		index++
	}
	t.Fatalf("%s holds %d bytes, want %d; first difference at offset %d", path, len(got), len(want), index)
}

// Pattern returns n bytes cycling through a prime-length sequence.
// Reads or writes that land at the wrong offset produce different
// bytes, which plain zero-filled data would hide.
func Pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}
