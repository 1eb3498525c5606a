package resolve

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vk/envgridgo/internal/config"
	"github.com/vk/envgridgo/internal/ctxlog"
	"github.com/vk/envgridgo/internal/installer"
)

// UnknownEnvironmentError reports a requested environment name that is not
// declared in the matrix.
type UnknownEnvironmentError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownEnvironmentError) Error() string {
	return fmt.Sprintf("unknown environment %q", e.Name)
}

// Plan is the concrete, fully-resolved execution plan for one environment
// run. Every field is bound except the working directory, which only exists
// once the executor materializes it; commands carry a {workdir} placeholder
// until then.
type Plan struct {
	Environment string
	Interpreter string
	Workdir     config.WorkdirMode
	RootDir     string

	// Installs are the rendered installer invocations, one per dependency
	// spec, in declaration order. They run before Commands.
	Installs []string

	// Commands preserves the declaration order of the merged definition.
	Commands []string

	// Env holds the resolved environment variable overrides. Generation
	// policies are already expanded: the value is final for this run.
	Env map[string]string
}

// Steps returns the complete ordered step sequence for the run, installs
// first, with the late-bound {workdir} placeholder substituted.
func (p *Plan) Steps(workdir string) []string {
	repl := strings.NewReplacer("{workdir}", workdir)
	steps := make([]string, 0, len(p.Installs)+len(p.Commands))
	for _, cmd := range p.Installs {
		steps = append(steps, repl.Replace(cmd))
	}
	for _, cmd := range p.Commands {
		steps = append(steps, repl.Replace(cmd))
	}
	return steps
}

// Resolve merges the defaults section with the named environment, field by
// field with the named value winning when present, and binds the result
// into a Plan. Each call is one run: random-policy variables get a fresh
// value here and keep it for every step of the plan.
func Resolve(ctx context.Context, m *config.Matrix, name string) (*Plan, error) {
	env, ok := m.Lookup(name)
	if !ok {
		return nil, &UnknownEnvironmentError{Name: name}
	}

	merged := merge(m.Defaults, env)
	if merged.Workdir == "" {
		merged.Workdir = config.WorkdirIsolatedTemp
	}

	repl := strings.NewReplacer(
		"{interpreter}", merged.Interpreter,
		"{root}", m.RootDir,
	)

	installs, err := installer.RenderAll(merged.Interpreter, substituteAll(merged.Deps, repl))
	if err != nil {
		return nil, fmt.Errorf("failed to render install steps for environment %q: %w", name, err)
	}

	plan := &Plan{
		Environment: name,
		Interpreter: merged.Interpreter,
		Workdir:     merged.Workdir,
		RootDir:     m.RootDir,
		Installs:    installs,
		Commands:    substituteAll(merged.Commands, repl),
		Env:         expandPolicies(merged.Env),
	}

	ctxlog.FromContext(ctx).Debug("Environment resolved.",
		"environment", name,
		"interpreter", plan.Interpreter,
		"workdir", plan.Workdir,
		"installs", len(plan.Installs),
		"commands", len(plan.Commands),
	)
	return plan, nil
}

// merge applies single-level inheritance: any field the named section left
// unset falls back to the defaults section. Set fields win wholesale,
// including the env map.
func merge(defaults, env *config.Environment) *config.Environment {
	merged := &config.Environment{
		Name:        env.Name,
		Interpreter: env.Interpreter,
		Workdir:     env.Workdir,
		Deps:        env.Deps,
		Commands:    env.Commands,
		Env:         env.Env,
	}
	if merged.Interpreter == "" {
		merged.Interpreter = defaults.Interpreter
	}
	if merged.Workdir == "" {
		merged.Workdir = defaults.Workdir
	}
	if merged.Deps == nil {
		merged.Deps = defaults.Deps
	}
	if merged.Commands == nil {
		merged.Commands = defaults.Commands
	}
	if merged.Env == nil {
		merged.Env = defaults.Env
	}
	return merged
}

// expandPolicies materializes generation policies into literal values. The
// random policy resolves to a fresh unpredictable value once per call.
func expandPolicies(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	out := make(map[string]string, len(env))
	for name, value := range env {
		if value == config.RandomPolicy {
			value = randomValue()
		}
		out[name] = value
	}
	return out
}

// randomValue returns an unpredictable 32-bit decimal, the shape hash-seed
// variables expect.
func randomValue() string {
	u := uuid.New()
	return strconv.FormatUint(uint64(binary.BigEndian.Uint32(u[:4])), 10)
}

func substituteAll(in []string, repl *strings.Replacer) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, repl.Replace(s))
	}
	return out
}
