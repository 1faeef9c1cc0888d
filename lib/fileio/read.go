// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import "io"

// Read reads up to len(p) bytes. A pending ungot byte is delivered
// first.
//
// Read reports success whenever at least one byte was copied; an error
// or end-of-file met after that is returned by the next call. At
// end-of-file Read returns 0, io.EOF. On an unbuffered handle the
// end-of-file flag is sticky: later reads return io.EOF without asking
// the OS again until Seek or SetBuffer clears it.
//
// A buffered read keeps refilling until len(p) bytes are copied or the
// descriptor reports end-of-file or an error.
func (f *File) Read(p []byte) (int, error) {
	if err := f.enter(); err != nil {
		f.rejected("read", int64(len(p)))
		return 0, err
	}
	defer f.unlock()

	n, err := f.readLocked(p)
	f.observe("read", int64(len(p)), int64(n), err)
	return n, err
}

func (f *File) readLocked(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if f.buf != nil {
		return f.readBuffered(p)
	}
	return f.readUnbuffered(p)
}

func (f *File) readBuffered(p []byte) (int, error) {
	if f.direction == directionWriting {
		if err := f.flushLocked(); err != nil {
			return 0, err
		}
		f.buf.reset()
		f.direction = directionNone
	}

	copied := f.takeUnget(p)
	var err error
	for copied < len(p) {
		if f.buf.exhausted() {
			n, fillErr := f.fill()
			if fillErr != nil {
				err = fillErr
				break
			}
			if n == 0 {
				f.eof = true
				err = io.EOF
				break
			}
		}
		copied += f.buf.take(p[copied:])
	}
	if copied > 0 {
		return copied, nil
	}
	return 0, err
}

// fill replaces the read-ahead window with one read of up to the
// buffer capacity.
func (f *File) fill() (int, error) {
	waited := false
	for {
		n, err := f.system.Read(f.fd, f.buf.fillTarget())
		switch {
		case err == nil:
			f.buf.filled(n)
			f.offset += int64(n)
			f.direction = directionReading
			return n, nil
		case isInterrupted(err):
			continue
		case isWouldBlock(err) && f.timeout != 0 && !waited:
			if waitErr := f.waitForIO(false); waitErr != nil {
				return 0, waitErr
			}
			waited = true
		default:
			return 0, f.pathError("read", err)
		}
	}
}

func (f *File) readUnbuffered(p []byte) (int, error) {
	copied := f.takeUnget(p)
	if copied == len(p) {
		return copied, nil
	}
	if f.eof {
		if copied > 0 {
			return copied, nil
		}
		return 0, io.EOF
	}
	n, err := f.readDescriptor(p[copied:])
	copied += n
	if copied > 0 {
		return copied, nil
	}
	return 0, err
}

// readDescriptor is one read(2) with EINTR retry and a single
// readiness wait on EAGAIN when a timeout is configured.
func (f *File) readDescriptor(p []byte) (int, error) {
	waited := false
	for {
		n, err := f.system.Read(f.fd, p)
		switch {
		case err == nil:
			if n == 0 {
				f.eof = true
				return 0, io.EOF
			}
			f.offset += int64(n)
			return n, nil
		case isInterrupted(err):
			continue
		case isWouldBlock(err) && f.timeout != 0 && !waited:
			if waitErr := f.waitForIO(false); waitErr != nil {
				return 0, waitErr
			}
			waited = true
		default:
			return 0, f.pathError("read", err)
		}
	}
}

// takeUnget moves a pending ungot byte into p.
func (f *File) takeUnget(p []byte) int {
	if f.unget == noUnget || len(p) == 0 {
		return 0
	}
	p[0] = byte(f.unget)
	f.unget = noUnget
	return 1
}

func (f *File) waitForIO(forWrite bool) error {
	return f.pathError("poll", f.waiter.WaitForIO(f.fd, forWrite, f.timeout))
}

// Getc reads one byte.
func (f *File) Getc() (byte, error) {
	if err := f.enter(); err != nil {
		f.rejected("getc", 1)
		return 0, err
	}
	defer f.unlock()

	c, err := f.getcLocked()
	transferred := int64(1)
	if err != nil {
		transferred = 0
	}
	f.observe("getc", 1, transferred, err)
	return c, err
}

func (f *File) getcLocked() (byte, error) {
	if f.buf != nil && f.direction == directionReading && f.unget == noUnget && !f.buf.exhausted() {
		return f.buf.takeByte(), nil
	}
	var one [1]byte
	if _, err := f.readFullLocked(one[:]); err != nil {
		return 0, err
	}
	return one[0], nil
}

// Ungetc pushes c back onto the stream. The next read returns it as
// its first byte. Only one byte is held: a second Ungetc before a read
// replaces the first.
func (f *File) Ungetc(c byte) error {
	if err := f.enter(); err != nil {
		f.rejected("ungetc", 1)
		return err
	}
	defer f.unlock()

	f.unget = int(c)
	f.observe("ungetc", 1, 1, nil)
	return nil
}

// Gets reads a line into p: bytes up to and including the next '\n',
// stopping early when p is full or the stream ends. The line is
// followed by a zero byte, so at most len(p)-1 bytes are stored; n
// counts the stored bytes without the terminator.
//
// If any byte was stored Gets reports success, and an error met while
// reading the rest of the line surfaces on the next call.
func (f *File) Gets(p []byte) (int, error) {
	if err := f.enter(); err != nil {
		f.rejected("gets", int64(len(p)))
		return 0, err
	}
	defer f.unlock()

	n, err := f.getsLocked(p)
	f.observe("gets", int64(len(p)), int64(n), err)
	return n, err
}

func (f *File) getsLocked(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	// A one-byte p holds only the terminator; nothing is read.
	limit := len(p) - 1
	stored := 0
	var err error
	for stored < limit {
		c, readErr := f.getcLocked()
		if readErr != nil {
			err = readErr
			break
		}
		p[stored] = c
		stored++
		if c == '\n' {
			break
		}
	}
	p[stored] = 0
	if stored > 0 {
		return stored, nil
	}
	return 0, err
}
