// Package hcl implements the config.Loader interface for HCL matrix files.
// It decodes the strict grammar defined in the schema package, evaluates
// attribute expressions, and translates the result into the format-agnostic
// config.Matrix model.
package hcl
