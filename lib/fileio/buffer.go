// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import "fmt"

// DefaultBufferSize is the buffer allocated for Buffered handles when
// no explicit size is given.
const DefaultBufferSize = 4096

// buffer owns the bytes of a buffered File and the two indices that
// describe them. While reading, data[cursor:extent] is read-ahead not
// yet consumed. While writing, data[:cursor] is pending output and
// extent is zero.
//
// Invariants: 0 <= extent <= len(data), 0 <= cursor <= len(data),
// and cursor <= extent whenever extent > 0. Every mutation goes
// through a method that checks them; a violation is a bug in the
// engines and panics.
type buffer struct {
	data   []byte
	extent int
	cursor int
}

func newBuffer(data []byte) *buffer {
	return &buffer{data: data}
}

func (b *buffer) capacity() int { return len(b.data) }

// reset drops read-ahead and pending output.
func (b *buffer) reset() {
	b.extent = 0
	b.cursor = 0
}

// exhausted reports whether all read-ahead has been consumed.
func (b *buffer) exhausted() bool { return b.cursor >= b.extent }

// full reports whether pending output fills the buffer.
func (b *buffer) full() bool { return b.cursor == len(b.data) }

// fillTarget returns the whole buffer as a refill destination.
func (b *buffer) fillTarget() []byte { return b.data }

// filled records that n bytes were read into fillTarget.
func (b *buffer) filled(n int) {
	if n < 0 || n > len(b.data) {
		panic(fmt.Sprintf("fileio: refill of %d bytes into buffer of %d", n, len(b.data)))
	}
	b.extent = n
	b.cursor = 0
}

// take copies unread bytes into p and consumes them.
func (b *buffer) take(p []byte) int {
	n := copy(p, b.data[b.cursor:b.extent])
	b.cursor += n
	return n
}

// takeByte consumes one unread byte. The caller must have checked
// exhausted.
func (b *buffer) takeByte() byte {
	if b.exhausted() {
		panic("fileio: takeByte on exhausted buffer")
	}
	c := b.data[b.cursor]
	b.cursor++
	return c
}

// put appends as much of p as fits to the pending output.
func (b *buffer) put(p []byte) int {
	if b.extent != 0 {
		panic("fileio: write into buffer holding read-ahead")
	}
	n := copy(b.data[b.cursor:], p)
	b.cursor += n
	return n
}

// pending returns the output not yet written to the descriptor.
func (b *buffer) pending() []byte { return b.data[:b.cursor] }

// drain removes the first n pending bytes after a partial flush,
// shifting the remainder to the front so a later flush resumes.
func (b *buffer) drain(n int) {
	if n < 0 || n > b.cursor {
		panic(fmt.Sprintf("fileio: drain of %d bytes with %d pending", n, b.cursor))
	}
	copy(b.data, b.data[n:b.cursor])
	b.cursor -= n
}

// unread returns the number of read-ahead bytes not yet consumed.
func (b *buffer) unread() int { return b.extent - b.cursor }

// moveCursor positions the cursor inside the read window. Used by
// Seek when the target lies in the buffer.
func (b *buffer) moveCursor(position int) {
	if position < 0 || position > b.extent {
		panic(fmt.Sprintf("fileio: cursor %d outside read window of %d", position, b.extent))
	}
	b.cursor = position
}
