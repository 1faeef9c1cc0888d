// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// memorySystem is an in-memory System for fault injection. Files live
// in a map keyed by path; descriptors carry their own offset. Faults
// queued with fail are returned, one per call, before the operation
// runs.
type memorySystem struct {
	mu sync.Mutex

	files       map[string]*memoryFile
	descriptors map[int]*memoryDescriptor
	nextFd      int

	// writeCeiling caps the bytes accepted by one Write or Writev.
	// Zero means unlimited.
	writeCeiling int

	// stalled makes Write report zero bytes without an error.
	stalled bool

	faults map[string][]error
	calls  map[string]int
	writes []int
}

type memoryFile struct {
	data []byte
	mode os.FileMode
}

type memoryDescriptor struct {
	file   *memoryFile
	offset int64
	append bool
}

func newMemorySystem() *memorySystem {
	return &memorySystem{
		files:       make(map[string]*memoryFile),
		descriptors: make(map[int]*memoryDescriptor),
		nextFd:      3,
		faults:      make(map[string][]error),
		calls:       make(map[string]int),
	}
}

// fail queues errors returned by the next calls to op.
func (s *memorySystem) fail(op string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = append(s.faults[op], errs...)
}

func (s *memorySystem) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *memorySystem) writeSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.writes...)
}

func (s *memorySystem) contents(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.files[path]
	if !ok {
		return ""
	}
	return string(file.data)
}

func (s *memorySystem) exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

func (s *memorySystem) openDescriptors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.descriptors)
}

// create installs a file with the given contents.
func (s *memorySystem) create(path, data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = &memoryFile{data: []byte(data), mode: 0o644}
}

// enter records the call and pops a queued fault. Must hold s.mu.
func (s *memorySystem) enter(op string) error {
	s.calls[op]++
	queue := s.faults[op]
	if len(queue) == 0 {
		return nil
	}
	s.faults[op] = queue[1:]
	return queue[0]
}

func (s *memorySystem) descriptor(fd int) (*memoryDescriptor, error) {
	descriptor, ok := s.descriptors[fd]
	if !ok {
		return nil, unix.EBADF
	}
	return descriptor, nil
}

func (s *memorySystem) Open(path string, flags int, mode uint32) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("open"); err != nil {
		return -1, err
	}
	file, ok := s.files[path]
	switch {
	case ok && flags&unix.O_CREAT != 0 && flags&unix.O_EXCL != 0:
		return -1, unix.EEXIST
	case !ok && flags&unix.O_CREAT == 0:
		return -1, unix.ENOENT
	case !ok:
		file = &memoryFile{mode: os.FileMode(mode)}
		s.files[path] = file
	}
	if flags&unix.O_TRUNC != 0 {
		file.data = nil
	}
	fd := s.nextFd
	s.nextFd++
	s.descriptors[fd] = &memoryDescriptor{file: file, append: flags&unix.O_APPEND != 0}
	return fd, nil
}

func (s *memorySystem) Read(fd int, p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("read"); err != nil {
		return -1, err
	}
	descriptor, err := s.descriptor(fd)
	if err != nil {
		return -1, err
	}
	if descriptor.offset >= int64(len(descriptor.file.data)) {
		return 0, nil
	}
	n := copy(p, descriptor.file.data[descriptor.offset:])
	descriptor.offset += int64(n)
	return n, nil
}

func (s *memorySystem) Write(fd int, p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("write"); err != nil {
		return -1, err
	}
	descriptor, err := s.descriptor(fd)
	if err != nil {
		return -1, err
	}
	if s.stalled {
		return 0, nil
	}
	n := s.writeAt(descriptor, p)
	s.writes = append(s.writes, n)
	return n, nil
}

func (s *memorySystem) Writev(fd int, vectors [][]byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("writev"); err != nil {
		return -1, err
	}
	descriptor, err := s.descriptor(fd)
	if err != nil {
		return -1, err
	}
	var joined []byte
	for _, vector := range vectors {
		joined = append(joined, vector...)
	}
	return s.writeAt(descriptor, joined), nil
}

// writeAt applies the write ceiling and extends the file. Must hold s.mu.
func (s *memorySystem) writeAt(descriptor *memoryDescriptor, p []byte) int {
	if s.writeCeiling > 0 && len(p) > s.writeCeiling {
		p = p[:s.writeCeiling]
	}
	file := descriptor.file
	if descriptor.append {
		descriptor.offset = int64(len(file.data))
	}
	end := descriptor.offset + int64(len(p))
	if end > int64(len(file.data)) {
		grown := make([]byte, end)
		copy(grown, file.data)
		file.data = grown
	}
	copy(file.data[descriptor.offset:], p)
	descriptor.offset = end
	return len(p)
}

func (s *memorySystem) Seek(fd int, offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("seek"); err != nil {
		return -1, err
	}
	descriptor, err := s.descriptor(fd)
	if err != nil {
		return -1, err
	}
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = descriptor.offset
	case io.SeekEnd:
		base = int64(len(descriptor.file.data))
	default:
		return -1, unix.EINVAL
	}
	if base+offset < 0 {
		return -1, unix.EINVAL
	}
	descriptor.offset = base + offset
	return descriptor.offset, nil
}

func (s *memorySystem) Fstat(fd int) (FileStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("fstat"); err != nil {
		return FileStat{}, err
	}
	descriptor, err := s.descriptor(fd)
	if err != nil {
		return FileStat{}, err
	}
	return FileStat{Size: int64(len(descriptor.file.data)), Mode: descriptor.file.mode}, nil
}

func (s *memorySystem) Ftruncate(fd int, size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ftruncate"); err != nil {
		return err
	}
	descriptor, err := s.descriptor(fd)
	if err != nil {
		return err
	}
	resized := make([]byte, size)
	copy(resized, descriptor.file.data)
	descriptor.file.data = resized
	return nil
}

func (s *memorySystem) Fsync(fd int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("fsync"); err != nil {
		return err
	}
	_, err := s.descriptor(fd)
	return err
}

func (s *memorySystem) Fdatasync(fd int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("fdatasync"); err != nil {
		return err
	}
	_, err := s.descriptor(fd)
	return err
}

func (s *memorySystem) Close(fd int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("close"); err != nil {
		delete(s.descriptors, fd)
		return err
	}
	if _, err := s.descriptor(fd); err != nil {
		return err
	}
	delete(s.descriptors, fd)
	return nil
}

func (s *memorySystem) Unlink(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("unlink"); err != nil {
		return err
	}
	if _, ok := s.files[path]; !ok {
		return unix.ENOENT
	}
	delete(s.files, path)
	return nil
}

func (s *memorySystem) Rename(from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.files[from]
	if !ok {
		return unix.ENOENT
	}
	s.files[to] = file
	delete(s.files, from)
	return nil
}

func (s *memorySystem) Link(from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.files[from]
	if !ok {
		return unix.ENOENT
	}
	s.files[to] = file
	return nil
}

func (s *memorySystem) Symlink(target, link string) error {
	return unix.ENOSYS
}

// scriptedWaiter records readiness waits and returns queued results.
type scriptedWaiter struct {
	mu      sync.Mutex
	results []error
	waits   []bool
}

func (w *scriptedWaiter) WaitForIO(fd int, forWrite bool, timeout time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.waits = append(w.waits, forWrite)
	if len(w.results) == 0 {
		return nil
	}
	result := w.results[0]
	w.results = w.results[1:]
	return result
}

func (w *scriptedWaiter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waits)
}

// openMemory opens path on system with the scripted waiter attached.
func openMemory(t testing.TB, system *memorySystem, path string, flags Flag, options ...Option) *File {
	t.Helper()
	options = append([]Option{WithSystem(system), WithWaiter(&scriptedWaiter{})}, options...)
	file, err := Open(path, flags, 0o644, options...)
	if err != nil {
		t.Fatalf("Open(%s, %s) failed: %v", path, flags, err)
	}
	return file
}
