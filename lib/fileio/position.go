// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import "io"

// positionLocked returns the offset a caller observes, accounting for
// read-ahead not yet consumed and output not yet flushed.
func (f *File) positionLocked() int64 {
	if f.buf == nil {
		return f.offset
	}
	switch f.direction {
	case directionReading:
		return f.offset - int64(f.buf.unread())
	case directionWriting:
		return f.offset + int64(len(f.buf.pending()))
	default:
		return f.offset
	}
}

// advance records n bytes written to the descriptor. O_APPEND writes
// land at end-of-file regardless of the previous offset, so Append
// handles re-read the descriptor position when it is seekable.
func (f *File) advance(n int) {
	f.offset += int64(n)
	if f.flags&Append == 0 {
		return
	}
	if position, err := f.system.Seek(f.fd, 0, io.SeekCurrent); err == nil {
		f.offset = position
	}
}

// seekDescriptor moves the descriptor to an absolute position and
// drops the buffer window. Pending output must already be flushed.
func (f *File) seekDescriptor(target int64) error {
	position, err := f.system.Seek(f.fd, target, io.SeekStart)
	if err != nil {
		return f.pathError("seek", err)
	}
	f.offset = position
	if f.buf != nil {
		f.buf.reset()
	}
	f.direction = directionNone
	return nil
}

// Position returns the current logical offset.
func (f *File) Position() (int64, error) {
	if err := f.enter(); err != nil {
		return 0, err
	}
	defer f.unlock()
	return f.positionLocked(), nil
}

// Seek sets the logical offset for the next Read or Write and
// implements io.Seeker. Pending output is flushed first. A buffered
// target that falls inside the current read-ahead window moves the
// cursor without a system call; any other target repositions the
// descriptor and drops the window. Seek clears the end-of-file flag
// and any ungot byte.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.enter(); err != nil {
		f.rejected("seek", offset)
		return 0, err
	}
	defer f.unlock()

	position, err := f.seekLocked(offset, whence)
	f.observe("seek", offset, position, err)
	return position, err
}

func (f *File) seekLocked(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = f.positionLocked()
	case io.SeekEnd:
		if err := f.flushLocked(); err != nil {
			return f.positionLocked(), err
		}
		stat, err := f.system.Fstat(f.fd)
		if err != nil {
			return f.positionLocked(), f.pathError("seek", err)
		}
		base = stat.Size
	default:
		return f.positionLocked(), ErrInvalidWhence
	}
	target := base + offset
	if target < 0 {
		return f.positionLocked(), ErrNegativeOffset
	}

	if err := f.flushLocked(); err != nil {
		return f.positionLocked(), err
	}
	f.eof = false
	f.unget = noUnget

	if f.buf != nil && f.direction == directionReading {
		windowStart := f.offset - int64(f.buf.extent)
		if target >= windowStart && target <= f.offset {
			f.buf.moveCursor(int(target - windowStart))
			return target, nil
		}
	}
	if err := f.seekDescriptor(target); err != nil {
		return f.positionLocked(), err
	}
	return f.offset, nil
}

// Truncate changes the size of the file and moves the logical offset
// to the new end. Pending output is flushed first, read-ahead is
// discarded, and the end-of-file state is cleared.
func (f *File) Truncate(size int64) error {
	if err := f.enter(); err != nil {
		f.rejected("truncate", size)
		return err
	}
	defer f.unlock()

	err := f.truncateLocked(size)
	f.observe("truncate", size, size, err)
	return err
}

func (f *File) truncateLocked(size int64) error {
	if size < 0 {
		return ErrNegativeOffset
	}
	if err := f.flushLocked(); err != nil {
		return err
	}
	if err := f.system.Ftruncate(f.fd, size); err != nil {
		return f.pathError("truncate", err)
	}
	f.eof = false
	f.unget = noUnget
	return f.seekDescriptor(size)
}
