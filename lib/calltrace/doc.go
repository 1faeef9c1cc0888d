// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package calltrace records file operations and persists them as
// trace files.
//
// A [Recorder] implements [fileio.Observer]. Attach it to any number
// of handles with [fileio.WithObserver]; each completed call becomes
// a timestamped [Record]. The recorder holds at most Config.Capacity
// records. Once full it stops recording and counts what it dropped
// rather than overwriting older entries, so a trace is always a
// prefix of what happened, never a window with a missing start.
//
// Trace files start with a fixed header (magic, version, compression)
// followed by a CBOR sequence, optionally compressed:
//
//	"FIOT" | version (1 byte) | compression (1 byte) | payload
//
// The payload's first item is the [Summary]; every following item is
// one [Record]. [Recorder.WriteFile] and [ReadFile] write and read the
// format through [fileio.File], so persisting a trace uses the same
// buffered I/O path being traced.
package calltrace
