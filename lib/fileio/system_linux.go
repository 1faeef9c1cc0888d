// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package fileio

import "golang.org/x/sys/unix"

func (unixSystem) Writev(fd int, vectors [][]byte) (int, error) {
	return unix.Writev(fd, vectors)
}

func (unixSystem) Fdatasync(fd int) error { return unix.Fdatasync(fd) }
