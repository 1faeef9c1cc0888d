// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/fileio/lib/calltrace"
	"github.com/bureau-foundation/fileio/lib/codec"
	"github.com/bureau-foundation/fileio/lib/config"
	"github.com/bureau-foundation/fileio/lib/fileio"
	"github.com/bureau-foundation/fileio/lib/lifetime"
)

// globalOptions holds the flags accepted before the command name.
type globalOptions struct {
	flagSet *pflag.FlagSet

	configPath       string
	bufferSize       int
	timeout          string
	shared           bool
	tracePath        string
	traceCompression string
	logLevel         string
}

func (g *globalOptions) register(flagSet *pflag.FlagSet) {
	g.flagSet = flagSet
	flagSet.StringVar(&g.configPath, "config", "", "config file (default: $FILEIO_CONFIG, or built-in defaults)")
	flagSet.IntVar(&g.bufferSize, "buffer-size", 0, "buffer size in bytes, 0 for unbuffered (overrides buffer_size)")
	flagSet.StringVar(&g.timeout, "timeout", "", `readiness wait bound, e.g. "250ms"; "0" fails at once, "-1" blocks (overrides timeout)`)
	flagSet.BoolVar(&g.shared, "shared", false, "guard every handle with a mutex (overrides shared)")
	flagSet.StringVar(&g.tracePath, "trace", "", "record file operations to this trace file (overrides trace.path)")
	flagSet.StringVar(&g.traceCompression, "trace-compression", "", "trace compression: none, zstd, lz4 (overrides trace.compression)")
	flagSet.StringVar(&g.logLevel, "log-level", "", "debug, info, warn, error (overrides log.level)")
}

// loadConfig resolves the config file and applies flag overrides.
func (g *globalOptions) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case g.configPath != "":
		cfg, err = config.LoadFile(g.configPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}

	changed := g.flagSet.Changed
	if changed("buffer-size") {
		cfg.BufferSize = g.bufferSize
	}
	if changed("timeout") {
		cfg.Timeout = g.timeout
	}
	if changed("shared") {
		cfg.Shared = g.shared
	}
	if changed("trace") {
		cfg.Trace.Path = g.tracePath
	}
	if changed("trace-compression") {
		cfg.Trace.Compression = g.traceCompression
	}
	if changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if os.Getenv("FILEIO_DEBUG") != "" {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// environment is what every command runs against: the resolved
// config, the logger, and the options every opened File receives.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	config  *config.Config
	logger  *slog.Logger
	scope   *lifetime.Scope
	options []fileio.Option

	// extraFlags is or-ed into every open (Shared, when configured).
	extraFlags fileio.Flag

	recorder         *calltrace.Recorder
	traceCompression codec.Compression
}

func newEnvironment(global globalOptions, stdin io.Reader, stdout, stderr io.Writer) (*environment, error) {
	cfg, err := global.loadConfig()
	if err != nil {
		return nil, err
	}
	// Validate has already checked these conversions.
	level, _ := cfg.LogLevel()
	timeout, _ := cfg.TimeoutDuration()
	compression, _ := cfg.TraceCompression()

	handlerOptions := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(stderr, handlerOptions)
	} else {
		handler = slog.NewTextHandler(stderr, handlerOptions)
	}
	logger := slog.New(handler)

	env := &environment{
		stdin:            stdin,
		stdout:           stdout,
		stderr:           stderr,
		config:           cfg,
		logger:           logger,
		scope:            lifetime.NewScope(logger),
		traceCompression: compression,
	}
	if cfg.Shared {
		env.extraFlags |= fileio.Shared
	}

	var observers []fileio.Observer
	if level <= slog.LevelDebug {
		observers = append(observers, fileio.NewLogObserver(logger, slog.LevelDebug))
	}
	if cfg.Trace.Path != "" {
		env.recorder = calltrace.NewRecorder(calltrace.Config{Capacity: cfg.Trace.Capacity})
		observers = append(observers, env.recorder)
	}

	env.options = []fileio.Option{
		fileio.WithBufferSize(cfg.BufferSize),
		fileio.WithTimeout(timeout),
		fileio.WithScope(env.scope),
	}
	switch len(observers) {
	case 0:
	case 1:
		env.options = append(env.options, fileio.WithObserver(observers[0]))
	default:
		env.options = append(env.options, fileio.WithObserver(fileio.ObserverFunc(func(call fileio.Call) {
			for _, observer := range observers {
				observer.Observe(call)
			}
		})))
	}
	return env, nil
}

// open opens path with the configured options.
func (env *environment) open(path string, flags fileio.Flag, perm os.FileMode) (*fileio.File, error) {
	return fileio.Open(path, flags|env.extraFlags, perm, env.options...)
}

// input opens path for reading, or wraps stdin for "-".
func (env *environment) input(path string) (*fileio.File, error) {
	if path != "-" {
		return env.open(path, fileio.Read|fileio.Buffered, 0)
	}
	stdin, ok := env.stdin.(*os.File)
	if !ok {
		return nil, errors.New("stdin is not a file descriptor")
	}
	return fileio.NewFile(int(stdin.Fd()), "stdin", fileio.Read|fileio.Buffered|env.extraFlags, env.options...)
}

// finish releases handles left open by a failed command and writes the
// trace.
func (env *environment) finish() error {
	var errs []error
	if remaining := env.scope.Len(); remaining > 0 {
		env.logger.Debug("closing handles left open", "count", remaining)
	}
	if err := env.scope.Destroy(); err != nil {
		errs = append(errs, err)
	}
	if env.recorder != nil {
		summary := env.recorder.Summary()
		if err := env.recorder.WriteFile(env.config.Trace.Path, env.traceCompression); err != nil {
			errs = append(errs, err)
		} else {
			env.logger.Info("trace written",
				"path", env.config.Trace.Path,
				"records", summary.Records,
				"dropped", summary.Dropped,
				"compression", env.traceCompression.String(),
			)
		}
		if summary.Dropped > 0 {
			env.logger.Warn("trace capacity exceeded", "capacity", env.recorder.Capacity(), "dropped", summary.Dropped)
		}
	}
	return errors.Join(errs...)
}

// output is the command's stdout. When stdout is a descriptor it is
// wrapped in a buffered File; when it is a terminal, output is flushed
// at every line end.
type output struct {
	file      *fileio.File
	writer    io.Writer
	lineFlush bool
}

func (env *environment) output() (*output, error) {
	stdout, ok := env.stdout.(*os.File)
	if !ok {
		return &output{writer: env.stdout}, nil
	}
	file, err := fileio.NewFile(int(stdout.Fd()), "stdout", fileio.Write|fileio.Buffered|env.extraFlags, env.options...)
	if err != nil {
		return nil, err
	}
	return &output{
		file:      file,
		writer:    fileio.FullWriter(file),
		lineFlush: term.IsTerminal(int(stdout.Fd())),
	}, nil
}

func (o *output) Write(p []byte) (int, error) {
	return o.writer.Write(p)
}

// endLine flushes after a complete line when writing to a terminal.
func (o *output) endLine() error {
	if o.lineFlush {
		return o.Flush()
	}
	return nil
}

func (o *output) Flush() error {
	if o.file == nil {
		return nil
	}
	return o.file.Flush()
}

// Close flushes pending output. The descriptor stays open.
func (o *output) Close() error {
	if o.file == nil {
		return nil
	}
	return o.file.Close()
}
