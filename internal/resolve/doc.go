// Package resolve turns a loaded matrix plus an environment name into a
// fully-bound execution plan: defaults merged with the named section,
// env-var policies expanded, dependency specs rendered into installer
// invocations, and placeholders substituted.
package resolve
