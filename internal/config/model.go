package config

import "fmt"

// WorkdirMode selects the working directory an environment's commands run in.
type WorkdirMode string

const (
	// WorkdirIsolatedTemp runs every command of an environment inside a
	// fresh, empty directory created for that run alone.
	WorkdirIsolatedTemp WorkdirMode = "isolated-temp"

	// WorkdirRepositoryRoot runs commands in the directory the matrix was
	// loaded from.
	WorkdirRepositoryRoot WorkdirMode = "repository-root"
)

// IsValid reports whether the mode is one of the recognized values.
func (m WorkdirMode) IsValid() bool {
	return m == WorkdirIsolatedTemp || m == WorkdirRepositoryRoot
}

// RandomPolicy is the env-value keyword that asks for a fresh unpredictable
// value to be generated once per run instead of a literal.
const RandomPolicy = "random"

// Environment is the format-agnostic representation of one named section of
// the matrix, or of the defaults section. Zero-valued fields mean "not set
// here"; the resolver fills them from the defaults section.
type Environment struct {
	Name        string
	Interpreter string
	Workdir     WorkdirMode
	Deps        []string
	Commands    []string
	Env         map[string]string
}

// Matrix is the unified, format-agnostic representation of a whole matrix
// file: one defaults section plus the named environments in declaration
// order. It is built once by a Loader and never mutated afterwards.
type Matrix struct {
	// Defaults supplies the fallback value for every field a named
	// environment omits. Never nil after a successful load.
	Defaults *Environment

	// Environments preserves declaration order across all loaded files.
	Environments []*Environment

	// EnvList names the environments run when the caller does not ask for
	// specific ones, in the order they should run.
	EnvList []string

	// RootDir is the directory the matrix was loaded from. It anchors the
	// repository-root workdir mode and the {root} substitution.
	RootDir string

	byName map[string]*Environment
}

// NewMatrix assembles a Matrix from its parts, building the name index.
// Environment names must already be unique; loaders enforce that before
// calling here.
func NewMatrix(defaults *Environment, envs []*Environment, envList []string, rootDir string) *Matrix {
	if defaults == nil {
		defaults = &Environment{}
	}
	m := &Matrix{
		Defaults:     defaults,
		Environments: envs,
		EnvList:      envList,
		RootDir:      rootDir,
		byName:       make(map[string]*Environment, len(envs)),
	}
	for _, env := range envs {
		m.byName[env.Name] = env
	}
	return m
}

// Lookup returns the named environment, if declared.
func (m *Matrix) Lookup(name string) (*Environment, bool) {
	env, ok := m.byName[name]
	return env, ok
}

// Names returns the environment names in declaration order.
func (m *Matrix) Names() []string {
	names := make([]string, 0, len(m.Environments))
	for _, env := range m.Environments {
		names = append(names, env.Name)
	}
	return names
}

// MalformedConfigError reports that the matrix text violates the section/key
// grammar or one of the matrix-level invariants. No partial matrix
// accompanies it.
type MalformedConfigError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *MalformedConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed matrix configuration: %v", e.Err)
	}
	return fmt.Sprintf("malformed matrix configuration in %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *MalformedConfigError) Unwrap() error { return e.Err }
