// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package fileio

import (
	"os"

	"golang.org/x/sys/unix"
)

type unixSystem struct{}

func (unixSystem) Open(path string, flags int, mode uint32) (int, error) {
	return unix.Open(path, flags, mode)
}

func (unixSystem) Read(fd int, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return unix.Read(fd, p)
}

func (unixSystem) Write(fd int, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return unix.Write(fd, p)
}

func (unixSystem) Seek(fd int, offset int64, whence int) (int64, error) {
	return unix.Seek(fd, offset, whence)
}

func (unixSystem) Fstat(fd int) (FileStat, error) {
	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return FileStat{}, err
	}
	return FileStat{
		Size: stat.Size,
		Mode: os.FileMode(stat.Mode & 0o777),
	}, nil
}

func (unixSystem) Ftruncate(fd int, size int64) error { return unix.Ftruncate(fd, size) }

func (unixSystem) Fsync(fd int) error { return unix.Fsync(fd) }

func (unixSystem) Close(fd int) error { return unix.Close(fd) }

func (unixSystem) Unlink(path string) error { return unix.Unlink(path) }

func (unixSystem) Rename(from, to string) error { return unix.Rename(from, to) }

func (unixSystem) Link(from, to string) error { return unix.Link(from, to) }

func (unixSystem) Symlink(target, link string) error { return unix.Symlink(target, link) }
