// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/fileio/lib/fileio"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestHashFile(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"small", []byte("hello, fileio")},
		{"empty", nil},
		// Larger than the default buffer so several fills are needed.
		{"large", func() []byte {
			content := make([]byte, 256*1024)
			for i := range content {
				content[i] = byte(i % 251)
			}
			return content
		}()},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeTemp(t, test.name, test.content)
			got, err := HashFile(path)
			if err != nil {
				t.Fatalf("HashFile: %v", err)
			}
			if want := Digest(blake3.Sum256(test.content)); got != want {
				t.Errorf("HashFile = %x, want %x", got, want)
			}
		})
	}
}

func TestHashFileObserved(t *testing.T) {
	path := writeTemp(t, "observed", []byte(strings.Repeat("x", 10000)))
	var reads int
	observer := fileio.ObserverFunc(func(call fileio.Call) {
		if call.Op == "read" {
			reads++
		}
	})

	if _, err := HashFile(path, fileio.WithBufferSize(4096), fileio.WithObserver(observer)); err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if reads == 0 {
		t.Error("observer saw no reads")
	}
}

func TestHashFileNonexistent(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("HashFile should fail for nonexistent file")
	}
	if !strings.Contains(err.Error(), "opening") {
		t.Errorf("error lacks context: %v", err)
	}
}

func TestHashFileDifferentContent(t *testing.T) {
	first, err := HashFile(writeTemp(t, "a", []byte("content A")))
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashFile(writeTemp(t, "b", []byte("content B")))
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("different files should produce different digests")
	}
}

func TestHashReaderMatchesHashBytes(t *testing.T) {
	data := []byte("streamed and whole")
	streamed, err := HashReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatal(err)
	}
	if streamed != HashBytes(data) {
		t.Errorf("HashReader = %x, HashBytes = %x", streamed, HashBytes(data))
	}
}

func TestParseDigestRoundTrip(t *testing.T) {
	original := HashBytes([]byte("round-trip"))
	formatted := FormatDigest(original)
	if len(formatted) != 64 {
		t.Errorf("FormatDigest length = %d, want 64", len(formatted))
	}

	parsed, err := ParseDigest(formatted)
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if parsed != original {
		t.Errorf("ParseDigest round-trip failed: %x != %x", parsed, original)
	}
}

func TestParseDigestInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not hex", strings.Repeat("z", 64)},
		{"too short", "abcd"},
		{"too long", strings.Repeat("ab", 33)},
		{"empty", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseDigest(test.input); err == nil {
				t.Errorf("ParseDigest(%q) should fail", test.input)
			}
		})
	}
}
