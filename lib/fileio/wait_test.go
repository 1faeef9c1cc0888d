// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// nonblockingPipe returns a pipe whose read end is non-blocking.
func nonblockingPipe(t *testing.T) (readFd, writeFd int) {
	t.Helper()
	var descriptors [2]int
	if err := unix.Pipe(descriptors[:]); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(descriptors[0])
		unix.Close(descriptors[1])
	})
	if err := unix.SetNonblock(descriptors[0], true); err != nil {
		t.Fatalf("set nonblock: %v", err)
	}
	return descriptors[0], descriptors[1]
}

func TestPollWaiter(t *testing.T) {
	readFd, writeFd := nonblockingPipe(t)
	waiter := PollWaiter()

	if err := waiter.WaitForIO(readFd, false, 10*time.Millisecond); !errors.Is(err, ErrTimeout) {
		t.Fatalf("wait on empty pipe = %v, want ErrTimeout", err)
	}
	if err := waiter.WaitForIO(writeFd, true, 0); err != nil {
		t.Errorf("wait for writable pipe = %v", err)
	}
	if _, err := unix.Write(writeFd, []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := waiter.WaitForIO(readFd, false, -1); err != nil {
		t.Errorf("wait on readable pipe = %v", err)
	}
}

func TestPipe_WouldBlockHonorsTimeout(t *testing.T) {
	readFd, writeFd := nonblockingPipe(t)

	immediate, err := NewFile(readFd, "pipe", Read, WithTimeout(0))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	_, err = immediate.Read(make([]byte, 4))
	if !errors.Is(err, unix.EAGAIN) || !IsTransient(err) {
		t.Errorf("Read with zero timeout = %v, want transient EAGAIN", err)
	}
	immediate.Close()

	bounded, err := NewFile(readFd, "pipe", Read|Buffered, WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	defer bounded.Close()
	if _, err := bounded.Read(make([]byte, 4)); !errors.Is(err, ErrTimeout) {
		t.Errorf("Read with bounded timeout = %v, want ErrTimeout", err)
	}

	if _, err := unix.Write(writeFd, []byte("late")); err != nil {
		t.Fatal(err)
	}
	data := make([]byte, 4)
	n, err := bounded.Read(data)
	if n != 4 || err != nil || string(data) != "late" {
		t.Errorf("Read after data arrived = %d %q %v", n, data[:n], err)
	}
}
