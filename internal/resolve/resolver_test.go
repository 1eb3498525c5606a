package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/envgridgo/internal/config"
)

func matrixFrom(t *testing.T, defaults *config.Environment, envs ...*config.Environment) *config.Matrix {
	t.Helper()
	return config.NewMatrix(defaults, envs, nil, "/repo")
}

func TestResolve_InheritsOmittedFields(t *testing.T) {
	t.Parallel()

	m := matrixFrom(t,
		&config.Environment{
			Workdir:  config.WorkdirIsolatedTemp,
			Deps:     []string{"flocker[dev]"},
			Commands: []string{"trial --rterrors flocker"},
			Env:      map[string]string{"CI": "yes"},
		},
		&config.Environment{Name: "pypy", Interpreter: "pypy"},
	)

	plan, err := Resolve(context.Background(), m, "pypy")
	require.NoError(t, err)

	assert.Equal(t, "pypy", plan.Interpreter)
	assert.Equal(t, config.WorkdirIsolatedTemp, plan.Workdir)
	assert.Equal(t, []string{"trial --rterrors flocker"}, plan.Commands)
	assert.Equal(t, []string{`pypy -m pip install 'flocker[dev]'`}, plan.Installs)
	assert.Equal(t, map[string]string{"CI": "yes"}, plan.Env)
}

func TestResolve_NamedFieldsWin(t *testing.T) {
	t.Parallel()

	m := matrixFrom(t,
		&config.Environment{
			Workdir:  config.WorkdirIsolatedTemp,
			Commands: []string{"trial flocker"},
			Env:      map[string]string{"A": "default"},
		},
		&config.Environment{
			Name:     "lint",
			Workdir:  config.WorkdirRepositoryRoot,
			Commands: []string{"flake8 flocker"},
			Env:      map[string]string{"B": "named"},
		},
	)

	plan, err := Resolve(context.Background(), m, "lint")
	require.NoError(t, err)

	assert.Equal(t, config.WorkdirRepositoryRoot, plan.Workdir)
	assert.Equal(t, []string{"flake8 flocker"}, plan.Commands)
	// The env map is a single field: a named section that sets it replaces
	// the default map wholesale.
	assert.Equal(t, map[string]string{"B": "named"}, plan.Env)
}

func TestResolve_CommandOrderPreserved(t *testing.T) {
	t.Parallel()

	commands := []string{"first", "second", "third"}
	m := matrixFrom(t,
		&config.Environment{},
		&config.Environment{Name: "docs", Commands: commands},
	)

	plan, err := Resolve(context.Background(), m, "docs")
	require.NoError(t, err)
	assert.Equal(t, commands, plan.Commands)
}

func TestResolve_UnknownEnvironment(t *testing.T) {
	t.Parallel()

	m := matrixFrom(t, &config.Environment{}, &config.Environment{Name: "lint"})

	plan, err := Resolve(context.Background(), m, "nonexistent")
	require.Error(t, err)
	assert.Nil(t, plan, "no partial plan on failure")

	var unknown *UnknownEnvironmentError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nonexistent", unknown.Name)
}

func TestResolve_DefaultWorkdirIsIsolatedTemp(t *testing.T) {
	t.Parallel()

	m := matrixFrom(t, &config.Environment{}, &config.Environment{Name: "lint"})

	plan, err := Resolve(context.Background(), m, "lint")
	require.NoError(t, err)
	assert.Equal(t, config.WorkdirIsolatedTemp, plan.Workdir)
}

func TestResolve_RandomPolicyFreshPerRun(t *testing.T) {
	t.Parallel()

	m := matrixFrom(t,
		&config.Environment{Env: map[string]string{"PYTHONHASHSEED": "random"}},
		&config.Environment{Name: "flocker"},
	)

	first, err := Resolve(context.Background(), m, "flocker")
	require.NoError(t, err)
	second, err := Resolve(context.Background(), m, "flocker")
	require.NoError(t, err)

	assert.NotEmpty(t, first.Env["PYTHONHASHSEED"])
	assert.NotEqual(t, "random", first.Env["PYTHONHASHSEED"], "policy keyword must be expanded")
	// Within one plan the value is a bound literal, so every command of the
	// run observes the same value by construction.
	assert.NotEqual(t, first.Env["PYTHONHASHSEED"], second.Env["PYTHONHASHSEED"],
		"separate runs must observe different values")
}

func TestResolve_PlaceholderSubstitution(t *testing.T) {
	t.Parallel()

	m := matrixFrom(t,
		&config.Environment{},
		&config.Environment{
			Name:        "docs",
			Interpreter: "python2.7",
			Commands: []string{
				"{interpreter} -m sphinx -b html {root}/docs {workdir}/html",
			},
		},
	)

	plan, err := Resolve(context.Background(), m, "docs")
	require.NoError(t, err)
	require.Len(t, plan.Commands, 1)
	assert.Equal(t, "python2.7 -m sphinx -b html /repo/docs {workdir}/html", plan.Commands[0],
		"{workdir} stays unbound until the executor materializes the directory")

	steps := plan.Steps("/tmp/run1")
	require.Len(t, steps, 1)
	assert.Equal(t, "python2.7 -m sphinx -b html /repo/docs /tmp/run1/html", steps[0])
}

func TestPlan_StepsOrdersInstallsFirst(t *testing.T) {
	t.Parallel()

	plan := &Plan{
		Installs: []string{"pip install a", "pip install b"},
		Commands: []string{"run tests"},
	}
	assert.Equal(t, []string{"pip install a", "pip install b", "run tests"}, plan.Steps("/w"))
}
