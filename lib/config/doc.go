// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads configuration for the fileio command.
//
// Configuration comes from a single file named by either the
// FILEIO_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no search path and no ~/.config
// discovery. Values in the file are layered over [Default]; command
// line flags override both.
//
// YAML is the primary format. Files ending in .json or .jsonc are
// read as JSON with comments and trailing commas. Unknown keys are
// rejected in both formats so a misspelled option is an error instead
// of a silent default.
//
// ${HOME} and ${VAR:-default} are expanded in trace.path. No other
// environment variables override config values.
package config
