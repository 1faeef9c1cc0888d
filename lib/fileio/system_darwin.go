// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package fileio

import "golang.org/x/sys/unix"

// Writev writes only the first non-empty vector. A true writev would
// be atomic across vectors; concatenating them or looping over them
// would not be, so callers that need every vector use WritevFull.
func (unixSystem) Writev(fd int, vectors [][]byte) (int, error) {
	for _, vector := range vectors {
		if len(vector) > 0 {
			return unix.Write(fd, vector)
		}
	}
	return 0, nil
}

// Fdatasync falls back to fsync; darwin has no fdatasync.
func (unixSystem) Fdatasync(fd int) error { return unix.Fsync(fd) }
