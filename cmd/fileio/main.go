// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// command is one subcommand of the tool.
type command struct {
	name    string
	summary string
	flags   func(flagSet *pflag.FlagSet) func(env *environment, args []string) error
}

// commands lists the subcommands in help order.
var commands = []command{
	{"cat", "print files", catCommand},
	{"head", "print the first lines or bytes of a file", headCommand},
	{"copy", "copy a file, keeping its mode", copyCommand},
	{"append", "append one file to another", appendCommand},
	{"sum", "print BLAKE3 digests", sumCommand},
	{"trace", "print a recorded trace", traceCommand},
	{"version", "print build information", versionCommand},
}

// usageError reports bad command-line input. run prints it with a
// pointer to --help and exits 2.
type usageError struct {
	message string
}

func (e *usageError) Error() string { return e.message }

func usagef(format string, args ...any) error {
	return &usageError{message: fmt.Sprintf(format, args...)}
}

// run executes the tool and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	globalFlags := pflag.NewFlagSet("fileio", pflag.ContinueOnError)
	globalFlags.SetOutput(io.Discard)
	globalFlags.SetInterspersed(false)
	var global globalOptions
	global.register(globalFlags)
	help := globalFlags.BoolP("help", "h", false, "show help")

	if err := globalFlags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, globalFlags)
			return 0
		}
		fmt.Fprintf(stderr, "fileio: %v\n\nRun 'fileio --help' for usage.\n", err)
		return 2
	}
	remaining := globalFlags.Args()
	if *help || len(remaining) == 0 {
		printHelp(stdout, globalFlags)
		if *help {
			return 0
		}
		return 2
	}

	selected, ok := findCommand(remaining[0])
	if !ok {
		fmt.Fprintf(stderr, "fileio: unknown command %q\n\nRun 'fileio --help' for usage.\n", remaining[0])
		return 2
	}

	commandFlags := pflag.NewFlagSet("fileio "+selected.name, pflag.ContinueOnError)
	commandFlags.SetOutput(io.Discard)
	execute := selected.flags(commandFlags)
	if err := commandFlags.Parse(remaining[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(stdout, "Usage: fileio %s\n\n%s", selected.name, commandFlags.FlagUsages())
			return 0
		}
		fmt.Fprintf(stderr, "fileio %s: %v\n", selected.name, err)
		return 2
	}

	env, err := newEnvironment(global, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "fileio: %v\n", err)
		return 2
	}

	err = execute(env, commandFlags.Args())
	if finishErr := env.finish(); finishErr != nil {
		err = errors.Join(err, finishErr)
	}
	if err == nil {
		return 0
	}

	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(stderr, "fileio %s: %v\n\nRun 'fileio %s --help' for usage.\n", selected.name, err, selected.name)
		return 2
	}
	fmt.Fprintf(stderr, "fileio %s: %v\n", selected.name, err)
	return 1
}

func findCommand(name string) (command, bool) {
	for _, candidate := range commands {
		if candidate.name == name {
			return candidate, true
		}
	}
	return command{}, false
}

func printHelp(w io.Writer, globalFlags *pflag.FlagSet) {
	var listing strings.Builder
	for _, entry := range commands {
		fmt.Fprintf(&listing, "  %-8s %s\n", entry.name, entry.summary)
	}
	fmt.Fprintf(w, `fileio: buffered file tool.

Usage:
  fileio [global flags] <command> [args]

Commands:
%s
Global flags:
%s`, listing.String(), globalFlags.FlagUsages())
}
