// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package calltrace

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/fileio/lib/clock"
	"github.com/bureau-foundation/fileio/lib/codec"
	"github.com/bureau-foundation/fileio/lib/fileio"
)

func filledRecorder(t *testing.T, count int) *Recorder {
	t.Helper()
	fake := clock.Fake(epoch)
	recorder := NewRecorder(Config{Capacity: count, Clock: fake})
	for i := range count + 3 {
		recorder.Observe(fileio.Call{
			Op:          "read",
			Fd:          3,
			Name:        "/srv/data/segment",
			Requested:   4096,
			Transferred: int64(i),
		})
		fake.Advance(time.Microsecond)
	}
	return recorder
}

func TestTraceFileRoundtrip(t *testing.T) {
	for _, compression := range []codec.Compression{codec.CompressionNone, codec.CompressionZstd, codec.CompressionLZ4} {
		t.Run(compression.String(), func(t *testing.T) {
			recorder := filledRecorder(t, 50)
			path := filepath.Join(t.TempDir(), "trace.fiot")
			if err := recorder.WriteFile(path, compression); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			trace, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if trace.Header.Version != Version || trace.Header.Compression != compression {
				t.Errorf("header = %+v", trace.Header)
			}
			if trace.Summary.Records != 50 || trace.Summary.Dropped != 3 {
				t.Errorf("summary = %+v, want 50 records and 3 dropped", trace.Summary)
			}
			original := recorder.Records()
			if len(trace.Records) != len(original) {
				t.Fatalf("decoded %d records, want %d", len(trace.Records), len(original))
			}
			for i := range original {
				got, want := trace.Records[i], original[i]
				if !got.At.Equal(want.At) || got.Op != want.Op || got.Transferred != want.Transferred || got.Name != want.Name {
					t.Fatalf("record[%d] = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestTraceFileCompresses(t *testing.T) {
	recorder := filledRecorder(t, 500)
	directory := t.TempDir()
	sizes := map[codec.Compression]int64{}
	for _, compression := range []codec.Compression{codec.CompressionNone, codec.CompressionZstd} {
		path := filepath.Join(directory, compression.String())
		if err := recorder.WriteFile(path, compression); err != nil {
			t.Fatalf("WriteFile(%s): %v", compression, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		sizes[compression] = info.Size()
	}
	if sizes[codec.CompressionZstd] >= sizes[codec.CompressionNone] {
		t.Errorf("zstd trace %d bytes, uncompressed %d", sizes[codec.CompressionZstd], sizes[codec.CompressionNone])
	}
}

func TestDecode_Rejects(t *testing.T) {
	var valid bytes.Buffer
	if err := Encode(&valid, codec.CompressionNone, Summary{}, []Record{{Op: "open"}}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   []byte
		notates bool
	}{
		{"empty", nil, true},
		{"wrong magic", []byte("GZIP\x01\x00"), true},
		{"wrong version", []byte("FIOT\x09\x00"), false},
		{"unknown compression", []byte("FIOT\x01\x07"), false},
		{"missing summary", []byte("FIOT\x01\x00"), false},
		{"truncated record", valid.Bytes()[:valid.Len()-2], false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(test.input))
			if err == nil {
				t.Fatal("Decode accepted invalid input")
			}
			if errors.Is(err, ErrNotTrace) != test.notates {
				t.Errorf("Decode error = %v, ErrNotTrace expected %v", err, test.notates)
			}
		})
	}
}

func TestDecode_RecordCountMismatch(t *testing.T) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, codec.CompressionNone, Summary{}, []Record{{Op: "a"}, {Op: "b"}}); err != nil {
		t.Fatal(err)
	}
	// Append a stray record after the encoded trace.
	extra, err := codec.Marshal(Record{Op: "stray"})
	if err != nil {
		t.Fatal(err)
	}
	buffer.Write(extra)
	if _, err := Decode(&buffer); err == nil {
		t.Error("Decode accepted a payload with more records than the summary lists")
	}
}

func TestPayload_Diagnosable(t *testing.T) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, codec.CompressionLZ4, Summary{Dropped: 1}, []Record{{Op: "open"}}); err != nil {
		t.Fatal(err)
	}
	header, payload, err := Payload(&buffer)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	defer payload.Close()
	if header.Compression != codec.CompressionLZ4 {
		t.Errorf("compression = %s", header.Compression)
	}
	data, err := io.ReadAll(payload)
	if err != nil {
		t.Fatal(err)
	}

	var items int
	for len(data) > 0 {
		if _, data, err = codec.DiagnoseFirst(data); err != nil {
			t.Fatalf("DiagnoseFirst: %v", err)
		}
		items++
	}
	if items != 2 {
		t.Errorf("payload has %d items, want summary and one record", items)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile error = %v, want ErrNotExist", err)
	}
}
