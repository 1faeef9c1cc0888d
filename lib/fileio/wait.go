// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"time"

	"golang.org/x/sys/unix"
)

// Waiter blocks until a descriptor is ready for reading (forWrite
// false) or writing (forWrite true). A negative timeout waits
// indefinitely. Returns ErrTimeout when the timeout expires first.
type Waiter interface {
	WaitForIO(fd int, forWrite bool, timeout time.Duration) error
}

// PollWaiter returns a Waiter backed by poll(2).
func PollWaiter() Waiter { return pollWaiter{} }

type pollWaiter struct{}

func (pollWaiter) WaitForIO(fd int, forWrite bool, timeout time.Duration) error {
	events := int16(unix.POLLIN)
	if forWrite {
		events = unix.POLLOUT
	}
	descriptors := []unix.PollFd{{Fd: int32(fd), Events: events}}

	milliseconds := -1
	if timeout >= 0 {
		milliseconds = int(timeout.Milliseconds())
		// Round sub-millisecond timeouts up so a positive timeout
		// never degenerates into a non-blocking poll.
		if milliseconds == 0 && timeout > 0 {
			milliseconds = 1
		}
	}

	for {
		ready, err := unix.Poll(descriptors, milliseconds)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if ready == 0 {
			return ErrTimeout
		}
		// POLLERR and POLLHUP count as ready: the following read
		// or write reports the condition.
		return nil
	}
}
