// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with a timer fallback) so that goroutine tests
// fail instead of hanging when a close or write deadlocks.
//
// [WriteFile], [RequireContent], and [Pattern] set up and check file
// contents for tests that exercise real descriptors.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation, such as distinct file names in a shared directory.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package must not import lib/fileio: fileio's own tests use it.
package testutil
