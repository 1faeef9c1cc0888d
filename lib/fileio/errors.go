// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Usage errors. These are returned before any system call is made.
var (
	// ErrClosed is returned by every operation on a handle whose Close
	// (or CloseInChild) has already run, including a second Close.
	ErrClosed = errors.New("fileio: file already closed")

	// ErrAccessMode is returned by Open when the flags request neither
	// Read nor Write access.
	ErrAccessMode = errors.New("fileio: open requires Read, Write, or ReadWrite")

	// ErrExclusiveWithoutCreate is returned by Open when Exclusive is
	// requested without Create.
	ErrExclusiveWithoutCreate = errors.New("fileio: Exclusive requires Create")

	// ErrInvalidBuffer is returned for a negative buffer size.
	ErrInvalidBuffer = errors.New("fileio: invalid buffer size")

	// ErrInvalidWhence is returned by Seek for an unknown whence value.
	ErrInvalidWhence = errors.New("fileio: invalid whence")

	// ErrNegativeOffset is returned by Seek and Truncate when the
	// resulting position would be negative.
	ErrNegativeOffset = errors.New("fileio: negative offset")
)

// ErrTimeout is returned when a readiness wait expires before the
// descriptor becomes ready.
var ErrTimeout = errors.New("fileio: i/o timeout")

// IsTransient reports whether err carries an errno that the engines
// treat as retryable: EINTR, EAGAIN, or EWOULDBLOCK.
func IsTransient(err error) bool {
	return errors.Is(err, unix.EINTR) || isWouldBlock(err)
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

func isInterrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}

// pathError attaches the operation and file name to an errno. Errors
// that already carry context (usage sentinels, ErrTimeout, io.EOF) are
// returned unchanged.
func (f *File) pathError(op string, err error) error {
	if err == nil {
		return nil
	}
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return err
	}
	var existing *os.PathError
	if errors.As(err, &existing) {
		return err
	}
	return &os.PathError{Op: op, Path: f.name, Err: err}
}
