// Package schema holds the HCL-tagged structs the matrix file grammar
// decodes into. Every recognized key is declared here explicitly; none of
// the structs carry a remain body, so unrecognized keys fail decoding
// instead of being silently dropped.
package schema

import "github.com/hashicorp/hcl/v2"

// Defaults is the single fallback section of a matrix file. Any field a
// named environment omits is inherited from here.
type Defaults struct {
	EnvList     []string       `hcl:"envlist,optional"`
	Interpreter string         `hcl:"interpreter,optional"`
	Workdir     string         `hcl:"workdir,optional"`
	Deps        []string       `hcl:"deps,optional"`
	Commands    []string       `hcl:"commands,optional"`
	Env         hcl.Expression `hcl:"env,optional"`
}

// Environment is one named `environment "<name>"` block. Each field, when
// present, overrides the corresponding defaults field wholesale.
type Environment struct {
	Name        string         `hcl:"name,label"`
	Interpreter string         `hcl:"interpreter,optional"`
	Workdir     string         `hcl:"workdir,optional"`
	Deps        []string       `hcl:"deps,optional"`
	Commands    []string       `hcl:"commands,optional"`
	Env         hcl.Expression `hcl:"env,optional"`
}

// File is the top-level structure of one matrix file.
type File struct {
	Defaults     *Defaults      `hcl:"defaults,block"`
	Environments []*Environment `hcl:"environment,block"`
}
