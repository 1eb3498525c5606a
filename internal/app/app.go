package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/envgridgo/internal/config"
	"github.com/vk/envgridgo/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	matrix *config.Matrix
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and an immutable,
// fully loaded matrix.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	matrix, err := loader.Load(ctx, appConfig.MatrixPath)
	if err != nil {
		// A failure to load the matrix is a fatal startup error.
		panic(fmt.Errorf("failed to load matrix configuration: %w", err))
	}
	logger.Debug("Matrix loaded and translated into unified model.",
		"environments", len(matrix.Environments))

	return &App{
		outW:   outW,
		logger: logger,
		matrix: matrix,
	}
}

// Matrix returns the loaded matrix. This is primarily for testing.
func (a *App) Matrix() *config.Matrix {
	return a.matrix
}
