// Package app wires the envgrid application together: it configures the
// logger, loads the matrix through a config.Loader, and drives resolution
// and execution of the requested environments.
package app
