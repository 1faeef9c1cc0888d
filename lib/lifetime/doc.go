// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lifetime provides an explicit owner for resources that must
// be finalized when a larger unit of work ends.
//
// A [Scope] holds registered resources, each with two named
// finalization strategies chosen at registration time:
//
//   - Normal runs in the owning process. For a file this flushes
//     buffered output, closes the descriptor, and honors
//     delete-on-close.
//   - Child runs in a process that inherited the resource and must
//     not touch shared state on its way out. For a file this closes
//     the descriptor without flushing or deleting anything, since the
//     parent still owns the buffered copy.
//
// [Scope.Destroy] runs every Normal finalizer; [Scope.DestroyInChild]
// runs every Child finalizer. Which strategy runs is always the
// caller's explicit choice; it is never inferred from process state.
// Finalizers run in reverse registration order, each at most once.
// A resource that finalizes itself early (for example an explicit
// Close) calls [Registration.Unregister] so the scope skips it.
//
// This package depends on no other packages in this module.
package lifetime
