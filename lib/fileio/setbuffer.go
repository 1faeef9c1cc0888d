// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

// SetBuffer replaces the handle's buffer with p, which the File owns
// from then on. An empty p disables buffering: later I/O goes straight
// to the descriptor.
//
// Pending output is flushed first; if the flush fails the old buffer
// stays in place. Unconsumed read-ahead is given back by repositioning
// the descriptor at the logical offset. The end-of-file flag is
// cleared.
func (f *File) SetBuffer(p []byte) error {
	if err := f.enter(); err != nil {
		f.rejected("set_buffer", int64(len(p)))
		return err
	}
	defer f.unlock()

	err := f.setBufferLocked(p)
	f.observe("set_buffer", int64(len(p)), 0, err)
	return err
}

// SetBufferSize replaces the buffer with a newly allocated one of size
// bytes. Zero disables buffering.
func (f *File) SetBufferSize(size int) error {
	if size < 0 {
		return ErrInvalidBuffer
	}
	var p []byte
	if size > 0 {
		p = make([]byte, size)
	}
	return f.SetBuffer(p)
}

func (f *File) setBufferLocked(p []byte) error {
	if err := f.flushLocked(); err != nil {
		return err
	}
	if f.buf != nil {
		if err := f.reconcileReadAhead(); err != nil {
			return err
		}
	}
	if len(p) == 0 {
		f.buf = nil
		f.flags &^= Buffered
	} else {
		f.buf = newBuffer(p)
		f.flags |= Buffered
	}
	f.direction = directionNone
	f.eof = false
	return nil
}

// BufferSize returns the buffer capacity, zero when unbuffered.
func (f *File) BufferSize() int {
	f.lock()
	defer f.unlock()
	if f.buf == nil {
		return 0
	}
	return f.buf.capacity()
}

// Stat flushes buffered output and returns the descriptor's size and
// permission bits.
func (f *File) Stat() (FileStat, error) {
	if err := f.enter(); err != nil {
		f.rejected("stat", 0)
		return FileStat{}, err
	}
	defer f.unlock()

	stat, err := f.statLocked()
	f.observe("stat", 0, stat.Size, err)
	return stat, err
}

func (f *File) statLocked() (FileStat, error) {
	if err := f.flushLocked(); err != nil {
		return FileStat{}, err
	}
	stat, err := f.system.Fstat(f.fd)
	if err != nil {
		return FileStat{}, f.pathError("stat", err)
	}
	return stat, nil
}
