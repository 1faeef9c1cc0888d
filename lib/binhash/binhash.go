// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/fileio/lib/fileio"
)

// Digest is a 32-byte BLAKE3 content digest.
type Digest [32]byte

// HashFile computes the BLAKE3 digest of the file at path. The file is
// read through a buffered handle in chunks so memory use is constant
// regardless of file size. Options are passed to [fileio.Open]; a
// caller that wants the reads traced passes an observer here.
func HashFile(path string, options ...fileio.Option) (Digest, error) {
	file, err := fileio.Open(path, fileio.Read|fileio.Buffered, 0, options...)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	digest, err := HashReader(file)
	if err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return digest, nil
}

// HashReader computes the BLAKE3 digest of everything r produces
// until io.EOF.
func HashReader(r io.Reader) (Digest, error) {
	hasher := blake3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return Digest{}, err
	}
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// HashBytes computes the BLAKE3 digest of data.
func HashBytes(data []byte) Digest {
	return blake3.Sum256(data)
}

// FormatDigest returns the hex-encoded string representation of a
// digest. This is the format printed by the sum command.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// ParseDigest parses a hex-encoded digest string. Returns an error if
// the string is not a valid 64-character hex encoding of 32 bytes.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	if len(decoded) != 32 {
		return digest, fmt.Errorf("hash digest is %d bytes, want 32", len(decoded))
	}
	copy(digest[:], decoded)
	return digest, nil
}
