// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import "io"

// Flush writes any buffered output to the descriptor. Flush is a no-op
// on an unbuffered handle or when nothing is pending, so calling it
// twice in a row costs nothing the second time.
//
// When a write fails partway the unwritten tail stays buffered and a
// later Flush resumes from it.
func (f *File) Flush() error {
	if err := f.enter(); err != nil {
		f.rejected("flush", 0)
		return err
	}
	defer f.unlock()

	pending := f.pendingLocked()
	err := f.flushLocked()
	f.observe("flush", int64(pending), int64(pending-f.pendingLocked()), err)
	return err
}

func (f *File) pendingLocked() int {
	if f.buf == nil || f.direction != directionWriting {
		return 0
	}
	return len(f.buf.pending())
}

func (f *File) flushLocked() error {
	if f.buf == nil || f.direction != directionWriting {
		return nil
	}
	waited := false
	for len(f.buf.pending()) > 0 {
		n, err := f.system.Write(f.fd, f.buf.pending())
		switch {
		case err == nil && n == 0:
			return io.ErrShortWrite
		case err == nil:
			f.buf.drain(n)
			f.advance(n)
			waited = false
		case isInterrupted(err):
			continue
		case isWouldBlock(err) && f.timeout != 0 && !waited:
			if waitErr := f.waitForIO(true); waitErr != nil {
				return waitErr
			}
			waited = true
		default:
			return f.pathError("write", err)
		}
	}
	return nil
}

// Sync flushes buffered output and commits the file to stable storage
// with fsync(2).
func (f *File) Sync() error {
	return f.syncWith("sync", f.system.Fsync)
}

// Datasync flushes buffered output and commits the file's data with
// fdatasync(2), or fsync(2) where the platform has no fdatasync.
func (f *File) Datasync() error {
	return f.syncWith("datasync", f.system.Fdatasync)
}

func (f *File) syncWith(op string, commit func(fd int) error) error {
	if err := f.enter(); err != nil {
		f.rejected(op, 0)
		return err
	}
	defer f.unlock()

	err := f.flushLocked()
	if err == nil {
		err = f.pathError(op, commit(f.fd))
	}
	f.observe(op, 0, 0, err)
	return err
}
