// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import "os"

// System is the OS transport underneath a File. Every method is a
// single system call with no retry: EINTR and EAGAIN are handled by
// the engines, not here. Errors are bare unix.Errno values.
//
// The default implementation calls golang.org/x/sys/unix. Tests
// substitute scripted transports to produce partial writes,
// interrupts, and would-block conditions.
type System interface {
	Open(path string, flags int, mode uint32) (int, error)
	Read(fd int, p []byte) (int, error)
	Write(fd int, p []byte) (int, error)
	// Writev writes the vectors in order with one call. Platforms
	// without writev may write only the first vector.
	Writev(fd int, vectors [][]byte) (int, error)
	Seek(fd int, offset int64, whence int) (int64, error)
	Fstat(fd int) (FileStat, error)
	Ftruncate(fd int, size int64) error
	Fsync(fd int) error
	Fdatasync(fd int) error
	Close(fd int) error

	Unlink(path string) error
	Rename(from, to string) error
	Link(from, to string) error
	Symlink(target, link string) error
}

// FileStat is the subset of fstat(2) the engines use.
type FileStat struct {
	Size int64
	Mode os.FileMode
}

// DefaultSystem returns the transport backed by golang.org/x/sys/unix.
func DefaultSystem() System { return unixSystem{} }
