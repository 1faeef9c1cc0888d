// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"context"
	"log/slog"
)

// Call describes one completed public operation on a File.
type Call struct {
	// Op is the operation name: "open", "read", "write", "writev",
	// "read_full", "write_full", "writev_full", "flush", "sync",
	// "datasync", "getc", "putc", "ungetc", "gets", "puts", "printf",
	// "seek", "truncate", "set_buffer", "close", "close_child".
	Op string

	// Fd is the descriptor the operation ran against, or -1 when the
	// handle was already closed.
	Fd int

	// Name is the path (or stream name) the File was opened with.
	Name string

	// Requested is the byte count the caller asked for. For seek and
	// truncate it is the requested offset.
	Requested int64

	// Transferred is the byte count actually moved. For seek it is
	// the resulting position.
	Transferred int64

	// Err is the error returned to the caller, nil on success.
	Err error
}

// Observer receives a Call after every public operation. Observers
// run on the calling goroutine while the handle is still held, so they
// see operations on one handle in order. An Observer shared by several
// handles must be safe for concurrent use.
type Observer interface {
	Observe(call Call)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(call Call)

// Observe calls fn(call).
func (fn ObserverFunc) Observe(call Call) { fn(call) }

// NewLogObserver returns an Observer that writes one structured record
// per call. Successful calls log at level; failed calls (other than
// plain end-of-file) log at warn.
func NewLogObserver(logger *slog.Logger, level slog.Level) Observer {
	return &logObserver{logger: logger, level: level}
}

type logObserver struct {
	logger *slog.Logger
	level  slog.Level
}

func (o *logObserver) Observe(call Call) {
	level := o.level
	if call.Err != nil && !isEOF(call.Err) {
		level = slog.LevelWarn
	}
	if !o.logger.Enabled(context.Background(), level) {
		return
	}
	attributes := []slog.Attr{
		slog.String("op", call.Op),
		slog.Int("fd", call.Fd),
		slog.String("name", call.Name),
		slog.Int64("requested", call.Requested),
		slog.Int64("transferred", call.Transferred),
	}
	if call.Err != nil {
		attributes = append(attributes, slog.String("error", call.Err.Error()))
	}
	o.logger.LogAttrs(context.Background(), level, "file operation", attributes...)
}

// observe reports a call to the configured observer, if any. Must be
// called with the handle lock held (or before the handle is shared).
func (f *File) observe(op string, requested, transferred int64, err error) {
	if f.observer == nil {
		return
	}
	f.observer.Observe(Call{
		Op:          op,
		Fd:          f.fd,
		Name:        f.name,
		Requested:   requested,
		Transferred: transferred,
		Err:         err,
	})
}
