// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"strings"

	"golang.org/x/sys/unix"
)

// Flag selects the access mode and behavior of an opened File.
type Flag uint32

const (
	// Read opens the file for reading.
	Read Flag = 1 << iota
	// Write opens the file for writing.
	Write
	// Create creates the file if it does not exist.
	Create
	// Append positions every OS write at the end of the file.
	Append
	// Truncate empties the file on open.
	Truncate
	// Binary is accepted for compatibility and has no effect on Unix.
	Binary
	// Exclusive fails the open if the file exists. Requires Create.
	Exclusive
	// Buffered allocates a user-space buffer of DefaultBufferSize (or
	// the size given to WithBufferSize).
	Buffered
	// DeleteOnClose unlinks the path when the owning process closes
	// the file. A child close never unlinks.
	DeleteOnClose
	// Shared guards every operation with a per-handle mutex so the
	// handle can be used from multiple goroutines.
	Shared
	// NoCleanup marks the descriptor as externally owned: Close never
	// releases it and it is not close-on-exec.
	NoCleanup
	// NonBlock opens the descriptor with O_NONBLOCK.
	NonBlock
	// LargeFile is accepted for compatibility; offsets are always 64-bit.
	LargeFile
)

// ReadWrite opens the file for both reading and writing.
const ReadWrite = Read | Write

var flagNames = []struct {
	flag Flag
	name string
}{
	{Read, "read"},
	{Write, "write"},
	{Create, "create"},
	{Append, "append"},
	{Truncate, "truncate"},
	{Binary, "binary"},
	{Exclusive, "exclusive"},
	{Buffered, "buffered"},
	{DeleteOnClose, "delete-on-close"},
	{Shared, "shared"},
	{NoCleanup, "no-cleanup"},
	{NonBlock, "nonblock"},
	{LargeFile, "large-file"},
}

// String returns the set flags joined with "|", for log output.
func (f Flag) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, entry := range flagNames {
		if f&entry.flag != 0 {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, "|")
}

// validate checks flag combinations that are rejected before the OS
// is consulted.
func (f Flag) validate() error {
	if f&ReadWrite == 0 {
		return ErrAccessMode
	}
	if f&Exclusive != 0 && f&Create == 0 {
		return ErrExclusiveWithoutCreate
	}
	return nil
}

// osFlags translates Flag into open(2) flags. The caller must have
// validated f.
func (f Flag) osFlags() int {
	var flags int
	switch {
	case f&ReadWrite == ReadWrite:
		flags = unix.O_RDWR
	case f&Read != 0:
		flags = unix.O_RDONLY
	default:
		flags = unix.O_WRONLY
	}
	if f&Create != 0 {
		flags |= unix.O_CREAT
		if f&Exclusive != 0 {
			flags |= unix.O_EXCL
		}
	}
	if f&Append != 0 {
		flags |= unix.O_APPEND
	}
	if f&Truncate != 0 {
		flags |= unix.O_TRUNC
	}
	if f&NonBlock != 0 {
		flags |= unix.O_NONBLOCK
	}
	if f&NoCleanup == 0 {
		flags |= unix.O_CLOEXEC
	}
	return flags
}
