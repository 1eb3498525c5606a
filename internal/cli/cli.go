package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/envgridgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("envgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
envgrid - a declarative test-environment matrix runner.

Usage:
  envgrid [options] [ENV ...]

Arguments:
  ENV
    Names of environments to run, in order. When omitted, the matrix
    envlist is run instead.

Options:
`)
		flagSet.PrintDefaults()
	}

	matrixFlag := flagSet.String("matrix", "envgrid.hcl", "Path to the matrix file or directory.")
	mFlag := flagSet.String("m", "", "Path to the matrix file or directory (shorthand).")
	listFlag := flagSet.Bool("list", false, "List the declared environments and exit.")
	keepWorkdirFlag := flagSet.Bool("keep-workdir", false, "Never delete isolated working directories.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	matrixPath := *matrixFlag
	if *mFlag != "" {
		matrixPath = *mFlag
	}
	slog.Debug("Matrix path determined.", "path", matrixPath)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		MatrixPath:   matrixPath,
		Environments: flagSet.Args(),
		ListOnly:     *listFlag,
		KeepWorkdir:  *keepWorkdirFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
