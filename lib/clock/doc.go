// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// Code that stamps records with wall-clock time accepts a Clock instead
// of calling time.Now directly. In production, Real() provides the
// standard library behavior. In tests, Fake() provides a clock that
// moves only when Advance or Set is called, so recorded timestamps are
// exact:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	recorder := calltrace.NewRecorder(calltrace.Config{Clock: c})
//	c.Advance(time.Second)
package clock
