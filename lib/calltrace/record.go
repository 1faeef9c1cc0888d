// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package calltrace

import (
	"fmt"
	"strings"
	"time"

	"github.com/bureau-foundation/fileio/lib/fileio"
)

// Record is one recorded file operation.
type Record struct {
	At          time.Time `cbor:"at"`
	Op          string    `cbor:"op"`
	Fd          int       `cbor:"fd"`
	Name        string    `cbor:"name,omitempty"`
	Requested   int64     `cbor:"requested"`
	Transferred int64     `cbor:"transferred"`

	// Error is the text of the error returned to the caller. Errors
	// do not survive serialization as values, so only the message is
	// kept.
	Error string `cbor:"error,omitempty"`
}

// newRecord converts an observed call into a Record stamped at.
func newRecord(at time.Time, call fileio.Call) Record {
	record := Record{
		At:          at,
		Op:          call.Op,
		Fd:          call.Fd,
		Name:        call.Name,
		Requested:   call.Requested,
		Transferred: call.Transferred,
	}
	if call.Err != nil {
		record.Error = call.Err.Error()
	}
	return record
}

// String formats the record as one line of text for terminal output.
func (r Record) String() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s %-11s fd=%d", r.At.UTC().Format(time.RFC3339Nano), r.Op, r.Fd)
	if r.Name != "" {
		fmt.Fprintf(&builder, " name=%s", r.Name)
	}
	fmt.Fprintf(&builder, " requested=%d transferred=%d", r.Requested, r.Transferred)
	if r.Error != "" {
		fmt.Fprintf(&builder, " error=%q", r.Error)
	}
	return builder.String()
}

// Summary is the first item of a trace payload.
type Summary struct {
	// Records is the number of records that follow.
	Records int `cbor:"records"`

	// Dropped counts calls observed after the recorder filled up.
	Dropped int64 `cbor:"dropped"`
}

// Trace is a decoded trace file.
type Trace struct {
	Header  Header
	Summary Summary
	Records []Record
}
