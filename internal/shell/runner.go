// Package shell executes individual command lines through an embedded POSIX
// shell interpreter, so matrix commands parse and run the same way on every
// platform. Exit codes are reported as plain ints; interpreting them is the
// executor's job.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Options carries the per-invocation execution context for one command.
type Options struct {
	// Dir is the working directory the command runs in.
	Dir string

	// Env is the complete process environment, KEY=VALUE pairs. Later
	// entries win over earlier ones.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner executes a single command line and reports its exit code. A
// non-nil error means the command could not be run at all; a non-zero exit
// code with a nil error means it ran and failed.
type Runner interface {
	Run(ctx context.Context, command string, opts Options) (int, error)
}

// InterpRunner runs commands with the mvdan/sh interpreter. The zero value
// is usable.
type InterpRunner struct{}

// New returns a Runner backed by the embedded shell interpreter.
func New() *InterpRunner {
	return &InterpRunner{}
}

// Run implements Runner. Each call builds a fresh interpreter so no shell
// state leaks between the commands of a sequence.
func (r *InterpRunner) Run(ctx context.Context, command string, opts Options) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "command")
	if err != nil {
		return 0, fmt.Errorf("failed to parse command %q: %w", command, err)
	}

	runner, err := interp.New(
		interp.Dir(opts.Dir),
		interp.Env(expand.ListEnviron(opts.Env...)),
		interp.StdIO(opts.Stdin, opts.Stdout, opts.Stderr),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create shell interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		if exitStatus, ok := interp.IsExitStatus(err); ok {
			return int(exitStatus), nil
		}
		return 0, fmt.Errorf("command %q failed to execute: %w", command, err)
	}
	return 0, nil
}
