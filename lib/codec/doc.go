// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration and stream
// compression used for call-trace files.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same trace always produces identical bytes, so traces can be
// compared by digest.
//
// A trace is a CBOR sequence: items written back to back with one
// Encoder and read back with one Decoder until io.EOF:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// The sequence may be wrapped in zstd or LZ4 compression with
// NewCompressedWriter and NewCompressedReader.
//
// Types serialized here use `cbor` struct tags.
package codec
