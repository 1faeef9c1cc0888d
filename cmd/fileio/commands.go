// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fileio/lib/binhash"
	"github.com/bureau-foundation/fileio/lib/calltrace"
	"github.com/bureau-foundation/fileio/lib/codec"
	"github.com/bureau-foundation/fileio/lib/fileio"
	"github.com/bureau-foundation/fileio/lib/version"
)

// maxLine bounds one Gets call. Longer lines are read in pieces.
const maxLine = 64 * 1024

// withOutput runs body against the command's stdout and closes it,
// keeping the first error.
func withOutput(env *environment, body func(out *output) error) (err error) {
	out, err := env.output()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("writing output: %w", closeErr)
		}
	}()
	return body(out)
}

func catCommand(flagSet *pflag.FlagSet) func(env *environment, args []string) error {
	number := flagSet.BoolP("number", "n", false, "number output lines")
	return func(env *environment, args []string) error {
		if len(args) == 0 {
			args = []string{"-"}
		}
		return withOutput(env, func(out *output) error {
			printer := &linePrinter{out: out, number: *number, atLineStart: true}
			for _, path := range args {
				if err := printer.copyFrom(env, path); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// linePrinter copies input to output line by line, optionally
// numbering lines. Numbering continues across files.
type linePrinter struct {
	out         *output
	number      bool
	lineNumber  int
	atLineStart bool
}

func (p *linePrinter) copyFrom(env *environment, path string) error {
	file, err := env.input(path)
	if err != nil {
		return err
	}
	defer file.Close()

	line := make([]byte, maxLine+1)
	for {
		n, err := file.Gets(line)
		if n > 0 {
			if p.number && p.atLineStart {
				p.lineNumber++
				if _, err := fmt.Fprintf(p.out, "%6d\t", p.lineNumber); err != nil {
					return err
				}
			}
			if _, err := p.out.Write(line[:n]); err != nil {
				return err
			}
			p.atLineStart = line[n-1] == '\n'
			if p.atLineStart {
				if err := p.out.endLine(); err != nil {
					return err
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}
}

func headCommand(flagSet *pflag.FlagSet) func(env *environment, args []string) error {
	lines := flagSet.IntP("lines", "n", 10, "number of lines to print")
	byteCount := flagSet.IntP("bytes", "c", 0, "number of bytes to print instead of lines")
	return func(env *environment, args []string) error {
		if len(args) != 1 {
			return usagef("expected one file, got %d arguments", len(args))
		}
		if *lines < 0 || *byteCount < 0 {
			return usagef("counts must not be negative")
		}
		file, err := env.input(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		return withOutput(env, func(out *output) error {
			if *byteCount > 0 {
				data := make([]byte, *byteCount)
				n, err := file.ReadFull(data)
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("reading %s: %w", args[0], err)
				}
				_, err = out.Write(data[:n])
				return err
			}

			line := make([]byte, maxLine+1)
			for printed := 0; printed < *lines; {
				n, err := file.Gets(line)
				if n > 0 {
					if _, err := out.Write(line[:n]); err != nil {
						return err
					}
					if line[n-1] == '\n' {
						printed++
						if err := out.endLine(); err != nil {
							return err
						}
					}
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("reading %s: %w", args[0], err)
				}
			}
			return nil
		})
	}
}

func copyCommand(flagSet *pflag.FlagSet) func(env *environment, args []string) error {
	verify := flagSet.Bool("verify", false, "compare BLAKE3 digests of source and destination after copying")
	return func(env *environment, args []string) error {
		if len(args) != 2 {
			return usagef("expected SRC and DST, got %d arguments", len(args))
		}
		source, destination := args[0], args[1]
		if err := fileio.CopyFile(source, destination, fileio.SourcePerms, env.options...); err != nil {
			return err
		}
		if !*verify {
			return nil
		}
		return verifyCopy(env, source, destination)
	}
}

func verifyCopy(env *environment, source, destination string) error {
	want, err := binhash.HashFile(source, env.options...)
	if err != nil {
		return err
	}
	got, err := binhash.HashFile(destination, env.options...)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("verification failed: %s has digest %s, %s has %s",
			source, binhash.FormatDigest(want), destination, binhash.FormatDigest(got))
	}
	env.logger.Info("copy verified", "source", source, "destination", destination, "digest", binhash.FormatDigest(got))
	return nil
}

func appendCommand(flagSet *pflag.FlagSet) func(env *environment, args []string) error {
	return func(env *environment, args []string) error {
		if len(args) != 2 {
			return usagef("expected SRC and DST, got %d arguments", len(args))
		}
		return fileio.AppendFile(args[0], args[1], 0o644, env.options...)
	}
}

func sumCommand(flagSet *pflag.FlagSet) func(env *environment, args []string) error {
	return func(env *environment, args []string) error {
		if len(args) == 0 {
			return usagef("expected at least one file")
		}
		return withOutput(env, func(out *output) error {
			// Keep going after a failure so every readable file gets a
			// digest.
			var errs []error
			for _, path := range args {
				digest, err := binhash.HashFile(path, env.options...)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if _, err := fmt.Fprintf(out, "%s  %s\n", binhash.FormatDigest(digest), path); err != nil {
					return err
				}
				if err := out.endLine(); err != nil {
					return err
				}
			}
			return errors.Join(errs...)
		})
	}
}

func traceCommand(flagSet *pflag.FlagSet) func(env *environment, args []string) error {
	diagnostic := flagSet.Bool("diag", false, "print the payload in CBOR diagnostic notation")
	return func(env *environment, args []string) error {
		if len(args) != 1 {
			return usagef("expected one trace file, got %d arguments", len(args))
		}
		path := args[0]
		return withOutput(env, func(out *output) error {
			if *diagnostic {
				return diagnoseTrace(env, out, path)
			}
			trace, err := calltrace.ReadFile(path, env.options...)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "trace version %d, %s, %d records, %d dropped\n",
				trace.Header.Version, trace.Header.Compression, trace.Summary.Records, trace.Summary.Dropped)
			for _, record := range trace.Records {
				if _, err := fmt.Fprintln(out, record.String()); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

func diagnoseTrace(env *environment, out *output, path string) error {
	file, err := env.open(path, fileio.Read|fileio.Buffered, 0)
	if err != nil {
		return err
	}
	defer file.Close()

	header, payload, err := calltrace.Payload(file)
	if err != nil {
		return fmt.Errorf("reading trace %s: %w", path, err)
	}
	defer payload.Close()
	data, err := io.ReadAll(payload)
	if err != nil {
		return fmt.Errorf("decompressing trace %s: %w", path, err)
	}

	fmt.Fprintf(out, "# version %d, %s\n", header.Version, header.Compression)
	for len(data) > 0 {
		var notation string
		notation, data, err = codec.DiagnoseFirst(data)
		if err != nil {
			return fmt.Errorf("diagnosing trace %s: %w", path, err)
		}
		if _, err := fmt.Fprintln(out, notation); err != nil {
			return err
		}
	}
	return nil
}

func versionCommand(flagSet *pflag.FlagSet) func(env *environment, args []string) error {
	full := flagSet.Bool("full", false, "include Go version, platform, and executable digest")
	return func(env *environment, args []string) error {
		if len(args) != 0 {
			return usagef("unexpected argument %q", args[0])
		}
		if !*full {
			_, err := fmt.Fprintf(env.stdout, "fileio %s\n", version.Info())
			return err
		}
		digest, err := version.SelfDigest()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(env.stdout, "fileio %s\n  Digest: %s\n", version.Full(), binhash.FormatDigest(digest))
		return err
	}
}
