package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// MatrixPath is the matrix file or directory of matrix files.
	MatrixPath string

	// Environments are the names requested on the command line. Empty means
	// "run the matrix envlist".
	Environments []string

	// ListOnly prints the declared environment names instead of running.
	ListOnly bool

	// KeepWorkdir preserves isolated working directories even on success.
	KeepWorkdir bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.MatrixPath == "" {
		return nil, errors.New("MatrixPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
