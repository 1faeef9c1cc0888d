// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/fileio/lib/codec"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "FILEIO_CONFIG"

// Config is the configuration for the fileio command.
type Config struct {
	// BufferSize is the user-space buffer size for opened files.
	// Zero disables buffering.
	// Default: 4096
	BufferSize int `yaml:"buffer_size" json:"buffer_size"`

	// Timeout bounds each readiness wait on a non-blocking descriptor,
	// as a Go duration string. "-1" or empty blocks indefinitely; "0"
	// fails immediately with the would-block error.
	// Default: -1
	Timeout string `yaml:"timeout" json:"timeout"`

	// Shared guards every handle with a mutex.
	Shared bool `yaml:"shared" json:"shared"`

	// Log configures the process logger.
	Log LogConfig `yaml:"log" json:"log"`

	// Trace configures call recording.
	Trace TraceConfig `yaml:"trace" json:"trace"`
}

// LogConfig configures the slog handler on stderr.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level" json:"level"`

	// Format is text or json.
	// Default: text
	Format string `yaml:"format" json:"format"`
}

// TraceConfig configures the call recorder.
type TraceConfig struct {
	// Path is where the trace is written when the command exits.
	// Empty disables tracing. ${HOME} and ${VAR:-default} are
	// expanded.
	Path string `yaml:"path" json:"path"`

	// Capacity is the maximum number of recorded calls.
	// Default: 4096
	Capacity int `yaml:"capacity" json:"capacity"`

	// Compression is none, zstd, or lz4.
	// Default: zstd
	Compression string `yaml:"compression" json:"compression"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		BufferSize: 4096,
		Timeout:    "-1",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Trace: TraceConfig{
			Capacity:    4096,
			Compression: "zstd",
		},
	}
}

// Load loads configuration from the FILEIO_CONFIG environment
// variable. There is no search path: if the variable is unset, Load
// fails, and callers that want to run without a file use [Default].
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a config file, or use --config", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path, layered over [Default].
// Files ending in .json or .jsonc are parsed as JSON with comments and
// trailing commas allowed; everything else is YAML. Unknown keys are
// errors.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		// An empty file leaves the defaults in place.
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Trace.Path = expandVars(c.Trace.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// TimeoutDuration returns Timeout as a duration. Negative means block
// indefinitely.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	switch c.Timeout {
	case "", "-1":
		return -1, nil
	case "0":
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	if timeout < 0 {
		return -1, nil
	}
	return timeout, nil
}

// LogLevel returns Log.Level as a slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// TraceCompression returns Trace.Compression as a codec value.
func (c *Config) TraceCompression() (codec.Compression, error) {
	compression, err := codec.ParseCompression(c.Trace.Compression)
	if err != nil {
		return 0, fmt.Errorf("trace.compression: %w", err)
	}
	return compression, nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("buffer_size must not be negative, got %d", c.BufferSize))
	}
	if _, err := c.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Trace.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("trace.capacity must be positive, got %d", c.Trace.Capacity))
	}
	if _, err := c.TraceCompression(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
