// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content digests of files.
//
// The sum command prints these digests, and copy verification compares
// the digest of the source with the digest of the destination. Files
// are streamed through a buffered [fileio.File], so hashing exercises
// the same read path as every other consumer of the library.
//
//   - [HashFile] streams a file through BLAKE3
//   - [HashReader] hashes any reader to io.EOF
//   - [FormatDigest] and [ParseDigest] convert to and from hex
package binhash
