// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/fileio/lib/lifetime"
)

// direction records which side of the buffer currently owns its
// contents.
type direction uint8

const (
	directionNone direction = iota
	directionReading
	directionWriting
)

func (d direction) String() string {
	switch d {
	case directionReading:
		return "reading"
	case directionWriting:
		return "writing"
	default:
		return "none"
	}
}

// Handle states. A File moves open -> closing -> closed exactly once.
const (
	stateOpen int32 = iota
	stateClosing
	stateClosed
)

// noUnget marks an empty pushback slot.
const noUnget = -1

// File is a descriptor wrapped with an optional user-space buffer.
//
// A File is not safe for concurrent use unless it was opened with the
// Shared flag, in which case every operation holds the handle mutex
// for its full duration. Close is safe to race with itself regardless:
// exactly one caller runs the finalization and the others receive
// ErrClosed.
type File struct {
	// mu is allocated only for Shared handles.
	mu *sync.Mutex

	state atomic.Int32

	system   System
	waiter   Waiter
	observer Observer

	fd    int
	name  string
	flags Flag

	// buf is nil when buffering is disabled.
	buf       *buffer
	direction direction

	// offset is the descriptor's OS-level position as last observed:
	// it advances by bytes physically read or written, never by bytes
	// that are only buffered.
	offset int64

	unget   int
	eof     bool
	timeout time.Duration

	registration *lifetime.Registration

	// Construction settings consumed by Open and NewFile.
	bufferSize int
	scope      *lifetime.Scope
}

// Option configures a File at construction.
type Option func(*File)

// WithBufferSize sets the buffer capacity. A positive size enables
// buffering even without the Buffered flag; zero disables it even
// with the flag.
func WithBufferSize(size int) Option {
	return func(file *File) {
		file.bufferSize = size
	}
}

// WithTimeout sets how a would-block condition is handled: negative
// waits indefinitely for readiness, zero fails immediately, positive
// waits up to the duration. The default is -1.
func WithTimeout(timeout time.Duration) Option {
	return func(file *File) {
		file.timeout = timeout
	}
}

// WithSystem replaces the OS transport. The default is DefaultSystem().
func WithSystem(system System) Option {
	return func(file *File) {
		file.system = system
	}
}

// WithWaiter replaces the readiness-wait primitive. The default is
// PollWaiter().
func WithWaiter(waiter Waiter) Option {
	return func(file *File) {
		file.waiter = waiter
	}
}

// WithObserver reports every public operation to observer.
func WithObserver(observer Observer) Option {
	return func(file *File) {
		file.observer = observer
	}
}

// WithScope registers the File with scope so that Scope.Destroy closes
// it and Scope.DestroyInChild releases it without flushing. Ignored
// for NoCleanup handles, which never release their descriptor.
func WithScope(scope *lifetime.Scope) Option {
	return func(file *File) {
		file.scope = scope
	}
}

// newFile applies options and allocates the buffer. The descriptor is
// filled in by the caller.
func newFile(name string, flags Flag, options []Option) (*File, error) {
	file := &File{
		fd:         -1,
		name:       name,
		flags:      flags,
		unget:      noUnget,
		timeout:    -1,
		bufferSize: -1,
	}
	for _, option := range options {
		option(file)
	}
	if file.system == nil {
		file.system = DefaultSystem()
	}
	if file.waiter == nil {
		file.waiter = PollWaiter()
	}

	size := file.bufferSize
	if size == -1 {
		size = 0
		if flags&Buffered != 0 {
			size = DefaultBufferSize
		}
	}
	if size < 0 {
		return nil, ErrInvalidBuffer
	}
	if size > 0 {
		file.buf = newBuffer(make([]byte, size))
		file.flags |= Buffered
	} else {
		file.flags &^= Buffered
	}
	if flags&Shared != 0 {
		file.mu = &sync.Mutex{}
	}
	return file, nil
}

// register hands the File to its scope, if one was configured.
func (f *File) register() error {
	if f.scope == nil || f.flags&NoCleanup != 0 {
		return nil
	}
	registration, err := f.scope.Register(f.name, lifetime.Finalizers{
		Normal: f.Close,
		Child:  f.CloseInChild,
	})
	if err != nil {
		return err
	}
	f.registration = registration
	return nil
}

func (f *File) lock() {
	if f.mu != nil {
		f.mu.Lock()
	}
}

func (f *File) unlock() {
	if f.mu != nil {
		f.mu.Unlock()
	}
}

// enter acquires the handle for one operation. Returns ErrClosed
// without holding the lock if the handle is closed or closing.
func (f *File) enter() error {
	f.lock()
	if f.state.Load() != stateOpen {
		f.unlock()
		return ErrClosed
	}
	return nil
}

// rejected reports an operation refused because the handle is closed.
func (f *File) rejected(op string, requested int64) {
	if f.observer != nil {
		f.observer.Observe(Call{Op: op, Fd: -1, Name: f.name, Requested: requested, Err: ErrClosed})
	}
}

// Name returns the path or stream name the File was created with.
func (f *File) Name() string { return f.name }

// Flags returns the flags in effect. Buffered reflects whether a
// buffer is currently installed.
func (f *File) Flags() Flag {
	f.lock()
	defer f.unlock()
	return f.flags
}

// Fd returns the underlying descriptor, or -1 after Close.
func (f *File) Fd() int {
	f.lock()
	defer f.unlock()
	return f.fd
}

// EOF reports whether a read has hit end-of-file since the handle was
// opened (or since the last Seek or SetBuffer).
func (f *File) EOF() bool {
	f.lock()
	defer f.unlock()
	return f.eof
}

// Timeout returns the would-block timeout.
func (f *File) Timeout() time.Duration {
	f.lock()
	defer f.unlock()
	return f.timeout
}

// SetTimeout changes the would-block timeout. See WithTimeout.
func (f *File) SetTimeout(timeout time.Duration) {
	f.lock()
	defer f.unlock()
	f.timeout = timeout
}

// Buffered reports whether a buffer is installed.
func (f *File) Buffered() bool {
	f.lock()
	defer f.unlock()
	return f.buf != nil
}
