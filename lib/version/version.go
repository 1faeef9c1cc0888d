// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/bureau-foundation/fileio/lib/binhash"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if isDirty() {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, Commit(), dirty, BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Commit returns the git commit SHA. When GitCommit was not injected,
// the VCS revision recorded by the go command is used instead,
// shortened to 12 characters.
func Commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	if revision := buildSetting("vcs.revision"); revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}
		return revision
	}
	return GitCommit
}

func isDirty() bool {
	if GitDirty == "true" {
		return true
	}
	return GitCommit == "unknown" && buildSetting("vcs.modified") == "true"
}

func buildSetting(key string) string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

// SelfDigest returns the BLAKE3 digest of the running executable,
// which identifies a build even when the version variables were not
// injected.
func SelfDigest() (binhash.Digest, error) {
	path, err := os.Executable()
	if err != nil {
		return binhash.Digest{}, fmt.Errorf("resolving own executable: %w", err)
	}
	return binhash.HashFile(path)
}
