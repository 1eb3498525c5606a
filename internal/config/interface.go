package config

import "context"

// Loader is the interface for a format-specific matrix loader.
type Loader interface {
	// Load reads matrix configuration from path (a single file or a
	// directory of files), translates it into the format-agnostic model,
	// and validates the matrix-level invariants. Failures are reported as
	// *MalformedConfigError.
	Load(ctx context.Context, path string) (*Matrix, error)
}
