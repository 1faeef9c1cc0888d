// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// SourcePerms asks CopyFile and AppendFile to give a newly created
// destination the permission bits of the source.
const SourcePerms = ^os.FileMode(0)

// copyChunkSize is the transfer unit between source and destination.
const copyChunkSize = 8192

// CopyFile copies the contents of from into to, creating or truncating
// to. perm applies when to is created; pass SourcePerms to reuse the
// source's permission bits. Options apply to both files.
func CopyFile(from, to string, perm os.FileMode, options ...Option) error {
	return transferContents(from, to, Write|Create|Truncate, perm, options)
}

// AppendFile appends the contents of from to to, creating to if it
// does not exist.
func AppendFile(from, to string, perm os.FileMode, options ...Option) error {
	return transferContents(from, to, Write|Create|Append, perm, options)
}

func transferContents(from, to string, flags Flag, perm os.FileMode, options []Option) (err error) {
	source, err := Open(from, Read|Buffered, 0, options...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, source.Close())
	}()

	if perm == SourcePerms {
		stat, err := source.Stat()
		if err != nil {
			return fmt.Errorf("reading permissions of %s: %w", from, err)
		}
		perm = stat.Mode
	}

	destination, err := Open(to, flags|Buffered, perm, options...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, destination.Close())
	}()

	chunk := make([]byte, copyChunkSize)
	for {
		n, readErr := source.Read(chunk)
		if n > 0 {
			if _, err := destination.WriteFull(chunk[:n]); err != nil {
				return fmt.Errorf("copying %s to %s: %w", from, to, err)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("copying %s to %s: %w", from, to, readErr)
		}
	}
}
