// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import "os"

// Remove unlinks path.
func Remove(path string) error {
	if err := DefaultSystem().Unlink(path); err != nil {
		return &os.PathError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

// Rename renames from to to, replacing to if it exists.
func Rename(from, to string) error {
	if err := DefaultSystem().Rename(from, to); err != nil {
		return &os.LinkError{Op: "rename", Old: from, New: to, Err: err}
	}
	return nil
}

// Link creates to as a hard link to from.
func Link(from, to string) error {
	if err := DefaultSystem().Link(from, to); err != nil {
		return &os.LinkError{Op: "link", Old: from, New: to, Err: err}
	}
	return nil
}

// Symlink creates link as a symbolic link to target.
func Symlink(target, link string) error {
	if err := DefaultSystem().Symlink(target, link); err != nil {
		return &os.LinkError{Op: "symlink", Old: target, New: link, Err: err}
	}
	return nil
}
