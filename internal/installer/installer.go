// Package installer renders dependency install directives into the shell
// invocations that hand them to the external package installer. The
// installer itself stays opaque: envgrid only spawns it and reads its exit
// code.
package installer

import (
	"fmt"

	"mvdan.cc/sh/v3/syntax"
)

// Render returns the command line that installs one dependency spec, e.g.
// "flocker[dev]". When an interpreter is set the installer runs inside it
// so the packages land in that interpreter's environment.
func Render(interpreter, spec string) (string, error) {
	quoted, err := syntax.Quote(spec, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("dependency spec %q is not shell-representable: %w", spec, err)
	}
	if interpreter == "" {
		return fmt.Sprintf("pip install %s", quoted), nil
	}
	return fmt.Sprintf("%s -m pip install %s", interpreter, quoted), nil
}

// RenderAll renders every dependency spec in order.
func RenderAll(interpreter string, specs []string) ([]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	installs := make([]string, 0, len(specs))
	for _, spec := range specs {
		cmd, err := Render(interpreter, spec)
		if err != nil {
			return nil, err
		}
		installs = append(installs, cmd)
	}
	return installs, nil
}
