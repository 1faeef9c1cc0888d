// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"errors"
	"os"
)

// Close flushes buffered output, releases the descriptor, and unlinks
// the path when the handle was opened with DeleteOnClose. A NoCleanup
// descriptor is flushed but left open.
//
// Close runs at most once per handle. A second Close (or a Close
// racing with the first) returns ErrClosed without touching the
// descriptor, whose number may already belong to another file. The
// handle is closed even when a step fails; the failures are joined
// into the returned error.
func (f *File) Close() error {
	return f.finalize(false)
}

// CloseInChild releases the descriptor in a process that inherited it.
// Buffered output is discarded rather than flushed, since the parent
// holds the same bytes and will flush its own copy, and DeleteOnClose
// is ignored.
func (f *File) CloseInChild() error {
	return f.finalize(true)
}

func (f *File) finalize(child bool) error {
	op := "close"
	if child {
		op = "close_child"
	}
	if !f.state.CompareAndSwap(stateOpen, stateClosing) {
		f.rejected(op, 0)
		return ErrClosed
	}

	f.lock()
	defer f.unlock()

	var errs []error
	if !child {
		if err := f.flushLocked(); err != nil {
			errs = append(errs, err)
		}
	}
	if f.flags&NoCleanup == 0 {
		// close(2) releases the descriptor even when it reports an
		// error, so the handle never retries it.
		if err := f.system.Close(f.fd); err != nil {
			errs = append(errs, f.pathError("close", err))
		}
	}
	if !child && f.flags&DeleteOnClose != 0 {
		if err := f.system.Unlink(f.name); err != nil {
			errs = append(errs, &os.PathError{Op: "unlink", Path: f.name, Err: err})
		}
	}

	err := errors.Join(errs...)
	f.observe(op, 0, 0, err)

	f.fd = -1
	f.buf = nil
	f.direction = directionNone
	f.unget = noUnget
	registration := f.registration
	f.registration = nil
	f.state.Store(stateClosed)

	registration.Unregister()
	return err
}
