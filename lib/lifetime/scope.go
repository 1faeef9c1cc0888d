// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lifetime

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrDestroyed is returned by Register after the scope has been
// destroyed.
var ErrDestroyed = errors.New("lifetime: scope already destroyed")

// Finalizers are the two strategies a resource offers for release.
// Either may be nil, in which case that strategy does nothing for the
// resource.
type Finalizers struct {
	// Normal releases the resource in the owning process.
	Normal func() error

	// Child releases the resource in a process that inherited it,
	// without side effects visible to the owner.
	Child func() error
}

// Scope owns a set of registered resources. Scope is safe for
// concurrent use.
type Scope struct {
	mu        sync.Mutex
	entries   []*entry
	destroyed bool
	logger    *slog.Logger
}

type entry struct {
	name       string
	finalizers Finalizers
}

// Registration identifies one registered resource.
type Registration struct {
	scope *Scope
	entry *entry
}

// NewScope creates an empty scope. Finalizer failures are logged to
// logger at warn level; a nil logger discards them.
func NewScope(logger *slog.Logger) *Scope {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scope{logger: logger}
}

// Register adds a resource to the scope. The name appears in log
// output and in errors returned by Destroy.
func (s *Scope) Register(name string, finalizers Finalizers) (*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return nil, ErrDestroyed
	}
	registered := &entry{name: name, finalizers: finalizers}
	s.entries = append(s.entries, registered)
	return &Registration{scope: s, entry: registered}, nil
}

// Unregister removes the resource without running either finalizer.
// Returns false if the resource was already removed or finalized.
func (r *Registration) Unregister() bool {
	if r == nil {
		return false
	}
	return r.scope.remove(r.entry)
}

func (s *Scope) remove(target *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for index, candidate := range s.entries {
		if candidate == target {
			s.entries = append(s.entries[:index], s.entries[index+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of resources still registered.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Destroy runs every Normal finalizer in reverse registration order
// and returns the joined failures. The scope accepts no further
// registrations. A second Destroy (or DestroyInChild) is a no-op.
func (s *Scope) Destroy() error {
	return s.run("normal", func(finalizers Finalizers) func() error { return finalizers.Normal })
}

// DestroyInChild runs every Child finalizer in reverse registration
// order and returns the joined failures.
func (s *Scope) DestroyInChild() error {
	return s.run("child", func(finalizers Finalizers) func() error { return finalizers.Child })
}

func (s *Scope) run(strategy string, pick func(Finalizers) func() error) error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return nil
	}
	s.destroyed = true
	entries := s.entries
	s.entries = nil
	s.mu.Unlock()

	// Finalizers run without the scope lock: a finalizer may call
	// Unregister on its own registration.
	var errs []error
	for index := len(entries) - 1; index >= 0; index-- {
		finalize := pick(entries[index].finalizers)
		if finalize == nil {
			continue
		}
		if err := finalize(); err != nil {
			s.logger.Warn("finalizer failed",
				"resource", entries[index].name,
				"strategy", strategy,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", entries[index].name, err))
		}
	}
	return errors.Join(errs...)
}
