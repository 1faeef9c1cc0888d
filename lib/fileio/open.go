// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"io"
	"os"
)

// Open opens path with the given flags. perm is applied when Create
// makes a new file (subject to the process umask).
//
// Usage errors (ErrAccessMode, ErrExclusiveWithoutCreate,
// ErrInvalidBuffer) are returned before any system call. OS failures
// are returned as *os.PathError with Op "open".
func Open(path string, flags Flag, perm os.FileMode, options ...Option) (*File, error) {
	if err := flags.validate(); err != nil {
		return nil, err
	}
	file, err := newFile(path, flags, options)
	if err != nil {
		return nil, err
	}

	fd, err := file.system.Open(path, flags.osFlags(), uint32(perm.Perm()))
	if err != nil {
		err = &os.PathError{Op: "open", Path: path, Err: err}
		file.observe("open", 0, 0, err)
		return nil, err
	}
	file.fd = fd

	if err := file.register(); err != nil {
		file.system.Close(fd)
		return nil, err
	}
	file.observe("open", 0, 0, nil)
	return file, nil
}

// NewFile wraps a descriptor the caller already owns. The File never
// closes it: NoCleanup is always added to flags, and Close only
// flushes and detaches. The starting offset is taken from the
// descriptor when it is seekable and zero otherwise.
func NewFile(fd int, name string, flags Flag, options ...Option) (*File, error) {
	flags |= NoCleanup
	if err := flags.validate(); err != nil {
		return nil, err
	}
	file, err := newFile(name, flags, options)
	if err != nil {
		return nil, err
	}
	file.fd = fd
	if offset, err := file.system.Seek(fd, 0, io.SeekCurrent); err == nil {
		file.offset = offset
	}
	return file, nil
}

// Stdin wraps descriptor 0 for reading.
func Stdin(options ...Option) (*File, error) {
	return NewFile(0, "stdin", Read, options...)
}

// Stdout wraps descriptor 1 for writing.
func Stdout(options ...Option) (*File, error) {
	return NewFile(1, "stdout", Write, options...)
}

// Stderr wraps descriptor 2 for writing.
func Stderr(options ...Option) (*File, error) {
	return NewFile(2, "stderr", Write, options...)
}
