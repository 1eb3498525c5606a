package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/vk/envgridgo/internal/ctxlog"
	"github.com/vk/envgridgo/internal/resolve"
	"github.com/vk/envgridgo/internal/shell"
	"github.com/vk/envgridgo/internal/workdir"
)

// CommandFailure reports the first step of a run that exited non-zero.
// Index counts across the whole step sequence, install steps included.
// Steps after Index were never started.
type CommandFailure struct {
	Index    int
	ExitCode int
	Command  string
}

// Error implements the error interface.
func (e *CommandFailure) Error() string {
	return fmt.Sprintf("step %d (%q) exited with code %d", e.Index, e.Command, e.ExitCode)
}

// Options carries run-wide execution settings.
type Options struct {
	// KeepWorkdir preserves isolated working directories even on success.
	KeepWorkdir bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Executor runs resolved plans through a shell runner.
type Executor struct {
	runner shell.Runner
	opts   Options
}

// New returns an Executor that spawns steps through the given runner.
func New(runner shell.Runner, opts Options) *Executor {
	return &Executor{runner: runner, opts: opts}
}

// Run executes every step of the plan in order and fail-fast. The isolated
// working directory, when one is materialized, is deleted on success and
// preserved on failure for debugging; KeepWorkdir preserves it always.
func (e *Executor) Run(ctx context.Context, plan *resolve.Plan) error {
	logger := ctxlog.FromContext(ctx).With("environment", plan.Environment)

	dir, isolated, err := workdir.Materialize(ctx, plan.Workdir, plan.Environment, plan.RootDir)
	if err != nil {
		return err
	}

	steps := plan.Steps(dir)
	environ := buildEnviron(plan)
	state := newRunState(len(steps))

	logger.Info("🚀 Starting environment run.", "steps", len(steps), "workdir", dir)

	for !state.terminal() {
		i := state.index()
		command := steps[i]
		logger.Info("▶️ Running step.", "index", i, "command", command)

		exitCode, err := e.runner.Run(ctx, command, shell.Options{
			Dir:    dir,
			Env:    environ,
			Stdin:  e.opts.Stdin,
			Stdout: e.opts.Stdout,
			Stderr: e.opts.Stderr,
		})
		if err != nil {
			e.preserveOnFailure(ctx, dir, isolated)
			return fmt.Errorf("step %d of environment %q could not be run: %w", i, plan.Environment, err)
		}
		if exitCode != 0 {
			state.fail(exitCode)
			logger.Error("❌ Step failed.", "index", i, "exit_code", exitCode)
			e.preserveOnFailure(ctx, dir, isolated)
			return &CommandFailure{Index: i, ExitCode: exitCode, Command: command}
		}

		logger.Debug("Step succeeded.", "index", i)
		state.advance()
	}

	logger.Info("✅ Environment run succeeded.", "steps", len(steps))
	e.cleanupOnSuccess(ctx, dir, isolated)
	return nil
}

// preserveOnFailure keeps an isolated directory around after a failed run so
// the operator can inspect it.
func (e *Executor) preserveOnFailure(ctx context.Context, dir string, isolated bool) {
	if isolated {
		ctxlog.FromContext(ctx).Info("Isolated working directory preserved for debugging.", "dir", dir)
	}
}

func (e *Executor) cleanupOnSuccess(ctx context.Context, dir string, isolated bool) {
	logger := ctxlog.FromContext(ctx)
	if !isolated {
		return
	}
	if e.opts.KeepWorkdir {
		logger.Info("Isolated working directory preserved.", "dir", dir)
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("Failed to remove isolated working directory.", "dir", dir, "error", err)
		return
	}
	logger.Debug("Isolated working directory removed.", "dir", dir)
}

// buildEnviron layers the plan's resolved overrides on top of the inherited
// process environment. Overrides are appended in sorted order; later
// entries win during expansion.
func buildEnviron(plan *resolve.Plan) []string {
	environ := os.Environ()

	names := make([]string, 0, len(plan.Env))
	for name := range plan.Env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		environ = append(environ, name+"="+plan.Env[name])
	}

	if plan.Interpreter != "" {
		environ = append(environ, "ENVGRID_INTERPRETER="+plan.Interpreter)
	}
	return environ
}
