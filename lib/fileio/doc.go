// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileio wraps a raw file descriptor with an optional
// user-space buffer while keeping POSIX read, write, and seek
// semantics exact: byte counts, end-of-file, partial transfers, and
// the descriptor offset all behave as they would without the buffer.
//
// A [File] holds a single buffer that belongs to one direction at a
// time. Reading fills it with read-ahead; writing accumulates pending
// output. Switching from reading to writing discards unconsumed
// read-ahead and moves the descriptor back to the logical offset;
// switching from writing to reading flushes first. [File.Position]
// reports the logical offset the caller would observe.
//
// The single-call operations ([File.Read], [File.Write],
// [File.Writev]) may transfer fewer bytes than requested and still
// report success, as read(2) and write(2) do. The full-transfer
// operations ([File.ReadFull], [File.WriteFull], [File.WritevFull])
// loop until every byte has moved or an error stops them; a short
// count always comes with an error.
//
// EINTR is always retried. EAGAIN is retried once after a readiness
// wait when the handle has a non-zero timeout (see [WithTimeout]);
// unbuffered writes additionally halve their length a bounded number
// of times. Every other OS error is returned as an *os.PathError
// carrying the errno, and end-of-file is io.EOF.
//
// Handles are not safe for concurrent use unless opened with
// [Shared]. Close runs exactly once: a second Close returns
// [ErrClosed]. [File.CloseInChild] is the release path for a process
// that inherited the descriptor: it neither flushes nor deletes. A
// lifetime.Scope passed with [WithScope] picks the right path for
// every registered handle when it is destroyed.
//
// Every public operation can be reported to an [Observer]. The OS
// transport ([System]) and the readiness wait ([Waiter]) are
// replaceable for fault injection.
package fileio
