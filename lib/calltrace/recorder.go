// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package calltrace

import (
	"errors"
	"sync"

	"github.com/bureau-foundation/fileio/lib/clock"
	"github.com/bureau-foundation/fileio/lib/fileio"
)

// DefaultCapacity is the record limit used when Config.Capacity is
// zero.
const DefaultCapacity = 4096

// ErrFull is returned by [Recorder.Add] when the recorder already
// holds Capacity records.
var ErrFull = errors.New("calltrace: recorder full")

// Config holds the parameters for a Recorder.
type Config struct {
	// Capacity is the maximum number of records held. Zero selects
	// DefaultCapacity. Negative values are treated as zero.
	Capacity int

	// Clock stamps each record. Nil selects clock.Real().
	Clock clock.Clock
}

// Recorder collects Records up to a fixed capacity. It is safe for
// concurrent use, so one Recorder may observe many handles.
type Recorder struct {
	clock    clock.Clock
	capacity int

	mu      sync.Mutex
	records []Record
	dropped int64
}

// NewRecorder creates an empty Recorder.
func NewRecorder(config Config) *Recorder {
	capacity := config.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	recordClock := config.Clock
	if recordClock == nil {
		recordClock = clock.Real()
	}
	return &Recorder{clock: recordClock, capacity: capacity}
}

var _ fileio.Observer = (*Recorder)(nil)

// Observe records call. When the recorder is full the call is counted
// as dropped instead.
func (r *Recorder) Observe(call fileio.Call) {
	if err := r.Add(newRecord(r.clock.Now(), call)); err != nil {
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
	}
}

// Add appends record, or returns ErrFull without modifying the
// recorder.
func (r *Recorder) Add(record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) >= r.capacity {
		return ErrFull
	}
	r.records = append(r.records, record)
	return nil
}

// Records returns a copy of the recorded entries in observation order.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Len returns the number of records held.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Capacity returns the record limit.
func (r *Recorder) Capacity() int { return r.capacity }

// Dropped returns the number of calls observed while full.
func (r *Recorder) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Summary describes the current contents.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{Records: len(r.records), Dropped: r.dropped}
}

// Reset discards every record and the dropped count.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.dropped = 0
}
