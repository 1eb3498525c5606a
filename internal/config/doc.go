// Package config defines the format-agnostic environment matrix model,
// the Loader interface for building it from configuration text, and the
// MalformedConfigError all loaders report parse failures with.
//
// The config.Matrix is the single source of truth for the resolve and
// executor packages. Concrete loader implementations, such as for HCL,
// live in separate packages.
package config
