package hcl

import (
	"fmt"

	hcllib "github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/envgridgo/internal/config"
	"github.com/vk/envgridgo/internal/schema"
)

// translateDefaults converts the defaults block into the agnostic model,
// splitting out the envlist since it is not an inheritable field.
func translateDefaults(b *schema.Defaults) (*config.Environment, []string, error) {
	workdir, err := translateWorkdir(b.Workdir, "defaults")
	if err != nil {
		return nil, nil, err
	}
	env, err := translateEnvMap(b.Env, "defaults")
	if err != nil {
		return nil, nil, err
	}
	return &config.Environment{
		Interpreter: b.Interpreter,
		Workdir:     workdir,
		Deps:        b.Deps,
		Commands:    b.Commands,
		Env:         env,
	}, b.EnvList, nil
}

// translateEnvironment converts one named environment block into the
// agnostic model.
func translateEnvironment(b *schema.Environment) (*config.Environment, error) {
	owner := fmt.Sprintf("environment %q", b.Name)

	workdir, err := translateWorkdir(b.Workdir, owner)
	if err != nil {
		return nil, err
	}
	env, err := translateEnvMap(b.Env, owner)
	if err != nil {
		return nil, err
	}
	return &config.Environment{
		Name:        b.Name,
		Interpreter: b.Interpreter,
		Workdir:     workdir,
		Deps:        b.Deps,
		Commands:    b.Commands,
		Env:         env,
	}, nil
}

// translateWorkdir maps the raw workdir attribute onto a WorkdirMode. An
// empty string means the section did not set the field.
func translateWorkdir(raw, owner string) (config.WorkdirMode, error) {
	if raw == "" {
		return "", nil
	}
	mode := config.WorkdirMode(raw)
	if !mode.IsValid() {
		return "", fmt.Errorf("%s: invalid workdir %q (must be %q or %q)",
			owner, raw, config.WorkdirIsolatedTemp, config.WorkdirRepositoryRoot)
	}
	return mode, nil
}

// translateEnvMap evaluates the env attribute expression into a string map.
// Values must be strings; the resolver interprets the policy keywords later.
func translateEnvMap(expr hcllib.Expression, owner string) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: invalid env value: %w", owner, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("%s: env must be a map of variable names to string values, got %s",
			owner, val.Type().FriendlyName())
	}

	out := make(map[string]string, val.LengthInt())
	for name, v := range val.AsValueMap() {
		if v.IsNull() || v.Type() != cty.String {
			return nil, fmt.Errorf("%s: env variable %q must be a string, got %s",
				owner, name, v.Type().FriendlyName())
		}
		out[name] = v.AsString()
	}
	return out, nil
}
