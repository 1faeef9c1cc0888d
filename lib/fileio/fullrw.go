// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import "io"

// ReadFull reads until p is full. It returns len(p), nil, or fewer
// bytes with the error that stopped it: io.EOF when the stream ended
// first, never a short count with a nil error.
func (f *File) ReadFull(p []byte) (int, error) {
	if err := f.enter(); err != nil {
		f.rejected("read_full", int64(len(p)))
		return 0, err
	}
	defer f.unlock()

	n, err := f.readFullLocked(p)
	f.observe("read_full", int64(len(p)), int64(n), err)
	return n, err
}

func (f *File) readFullLocked(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := f.readLocked(p[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFull writes all of p, repeating short writes. It returns
// len(p), nil, or the bytes written before the error that stopped it.
func (f *File) WriteFull(p []byte) (int, error) {
	if err := f.enter(); err != nil {
		f.rejected("write_full", int64(len(p)))
		return 0, err
	}
	defer f.unlock()

	n, err := f.writeFullLocked(p)
	f.observe("write_full", int64(len(p)), int64(n), err)
	return n, err
}

func (f *File) writeFullLocked(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := f.writeLocked(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// WritevFull writes every byte of every vector, in vector order. It
// first tries a single writev(2); if the OS accepts fewer bytes, the
// rest of the partially written vector and then each remaining vector
// are written with WriteFull. Only the first system call is atomic.
func (f *File) WritevFull(vectors [][]byte) (int, error) {
	total := vectorLength(vectors)
	if err := f.enter(); err != nil {
		f.rejected("writev_full", int64(total))
		return 0, err
	}
	defer f.unlock()

	n, err := f.writevFullLocked(vectors, total)
	f.observe("writev_full", int64(total), int64(n), err)
	return n, err
}

func (f *File) writevFullLocked(vectors [][]byte, total int) (int, error) {
	written, err := f.writevLocked(vectors)
	if err != nil || written == total {
		return written, err
	}

	index := 0
	skip := written
	for index < len(vectors) && skip >= len(vectors[index]) {
		skip -= len(vectors[index])
		index++
	}
	if skip > 0 {
		n, err := f.writeFullLocked(vectors[index][skip:])
		written += n
		if err != nil {
			return written, err
		}
		index++
	}
	for ; index < len(vectors); index++ {
		n, err := f.writeFullLocked(vectors[index])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// FullWriter adapts f to io.Writer with WriteFull semantics, so an
// unbuffered handle never reports a short write without an error.
func FullWriter(f *File) io.Writer {
	return fullWriter{file: f}
}

type fullWriter struct {
	file *File
}

func (w fullWriter) Write(p []byte) (int, error) {
	return w.file.WriteFull(p)
}
