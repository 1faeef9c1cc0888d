// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// fileio is a small file tool built on lib/fileio. Every byte it reads
// or writes goes through the buffered handle layer, so it doubles as a
// way to exercise buffer sizes, timeouts, and shared handles against
// real files and pipes, and to record what the layer did.
//
// Usage:
//
//	fileio [global flags] <command> [args]
//
// Commands:
//
//	cat [-n] FILE...        print files ("-" is stdin)
//	head [-n N | -c N] FILE print the first lines or bytes
//	copy [--verify] SRC DST copy SRC over DST, keeping SRC's mode
//	append SRC DST          append SRC to DST
//	sum FILE...             print BLAKE3 digests
//	trace [--diag] FILE     print a recorded trace
//	version [--full]        print build information
//
// Global flags override the config file named by --config or
// FILEIO_CONFIG. With --trace, every file operation is recorded and
// written to the given path when the command finishes.
package main
