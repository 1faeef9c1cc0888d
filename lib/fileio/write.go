// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import "fmt"

// maxWriteBackoff bounds how many times an unbuffered write halves its
// length while the descriptor keeps reporting EAGAIN after a
// successful readiness wait.
const maxWriteBackoff = 16

// Write writes p. A buffered handle copies p into the buffer, flushing
// whenever it fills, and reports len(p) unless a flush fails. An
// unbuffered handle issues a single write(2), which may be short; use
// WriteFull (or FullWriter) when every byte must land.
func (f *File) Write(p []byte) (int, error) {
	if err := f.enter(); err != nil {
		f.rejected("write", int64(len(p)))
		return 0, err
	}
	defer f.unlock()

	n, err := f.writeLocked(p)
	f.observe("write", int64(len(p)), int64(n), err)
	return n, err
}

func (f *File) writeLocked(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if f.buf != nil {
		return f.writeBuffered(p)
	}
	return f.writeUnbuffered(p)
}

func (f *File) writeBuffered(p []byte) (int, error) {
	if f.direction != directionWriting {
		if err := f.beginWriting(); err != nil {
			return 0, err
		}
	}
	written := 0
	for written < len(p) {
		if f.buf.full() {
			if err := f.flushLocked(); err != nil {
				return written, err
			}
		}
		written += f.buf.put(p[written:])
	}
	return written, nil
}

// beginWriting hands the buffer to the write direction. Unconsumed
// read-ahead is discarded and the descriptor moved back to the logical
// offset so output lands where the caller expects.
func (f *File) beginWriting() error {
	if err := f.reconcileReadAhead(); err != nil {
		return err
	}
	f.buf.reset()
	f.direction = directionWriting
	return nil
}

// reconcileReadAhead repositions the descriptor at the logical offset
// when the read-ahead window holds unconsumed bytes.
func (f *File) reconcileReadAhead() error {
	if f.direction != directionReading || f.buf.unread() == 0 {
		return nil
	}
	return f.seekDescriptor(f.offset - int64(f.buf.unread()))
}

func (f *File) writeUnbuffered(p []byte) (int, error) {
	n, err := f.writeDescriptor(p)
	if err == nil || !isWouldBlock(err) || f.timeout == 0 {
		return n, err
	}
	if waitErr := f.waitForIO(true); waitErr != nil {
		return 0, waitErr
	}
	// Some descriptors report writable and then refuse a large write.
	// Halve the request until the OS takes something, within a bound.
	length := len(p)
	for attempt := 0; ; attempt++ {
		n, err = f.writeDescriptor(p[:length])
		if err == nil || !isWouldBlock(err) {
			return n, err
		}
		if attempt == maxWriteBackoff || length == 1 {
			return 0, err
		}
		length /= 2
	}
}

// writeDescriptor is one write(2) with EINTR retry.
func (f *File) writeDescriptor(p []byte) (int, error) {
	for {
		n, err := f.system.Write(f.fd, p)
		if err == nil {
			f.advance(n)
			return n, nil
		}
		if isInterrupted(err) {
			continue
		}
		return 0, f.pathError("write", err)
	}
}

// Putc writes one byte.
func (f *File) Putc(c byte) error {
	if err := f.enter(); err != nil {
		f.rejected("putc", 1)
		return err
	}
	defer f.unlock()

	err := f.putcLocked(c)
	transferred := int64(1)
	if err != nil {
		transferred = 0
	}
	f.observe("putc", 1, transferred, err)
	return err
}

func (f *File) putcLocked(c byte) error {
	if f.buf != nil && f.direction == directionWriting && !f.buf.full() {
		f.buf.put([]byte{c})
		return nil
	}
	_, err := f.writeFullLocked([]byte{c})
	return err
}

// Puts writes s in full.
func (f *File) Puts(s string) error {
	if err := f.enter(); err != nil {
		f.rejected("puts", int64(len(s)))
		return err
	}
	defer f.unlock()

	n, err := f.writeFullLocked([]byte(s))
	f.observe("puts", int64(len(s)), int64(n), err)
	return err
}

// Printf formats according to format and writes the result in full.
func (f *File) Printf(format string, arguments ...any) (int, error) {
	text := fmt.Sprintf(format, arguments...)
	if err := f.enter(); err != nil {
		f.rejected("printf", int64(len(text)))
		return 0, err
	}
	defer f.unlock()

	n, err := f.writeFullLocked([]byte(text))
	f.observe("printf", int64(len(text)), int64(n), err)
	return n, err
}

// Writev writes the vectors in order with a single writev(2) and
// returns the number of bytes the OS accepted, which may be fewer than
// the total. A buffered handle flushes pending output and reconciles
// its position first, so the vectors follow earlier writes. Platforms
// without writev write only the first non-empty vector.
func (f *File) Writev(vectors [][]byte) (int, error) {
	total := vectorLength(vectors)
	if err := f.enter(); err != nil {
		f.rejected("writev", int64(total))
		return 0, err
	}
	defer f.unlock()

	n, err := f.writevLocked(vectors)
	f.observe("writev", int64(total), int64(n), err)
	return n, err
}

func (f *File) writevLocked(vectors [][]byte) (int, error) {
	if f.buf != nil {
		if err := f.flushLocked(); err != nil {
			return 0, err
		}
		if err := f.reconcileReadAhead(); err != nil {
			return 0, err
		}
		f.buf.reset()
		f.direction = directionNone
	}
	if vectorLength(vectors) == 0 {
		return 0, nil
	}

	waited := false
	for {
		n, err := f.system.Writev(f.fd, vectors)
		switch {
		case err == nil:
			f.advance(n)
			return n, nil
		case isInterrupted(err):
			continue
		case isWouldBlock(err) && f.timeout != 0 && !waited:
			if waitErr := f.waitForIO(true); waitErr != nil {
				return 0, waitErr
			}
			waited = true
		default:
			return 0, f.pathError("writev", err)
		}
	}
}

func vectorLength(vectors [][]byte) int {
	total := 0
	for _, vector := range vectors {
		total += len(vector)
	}
	return total
}
