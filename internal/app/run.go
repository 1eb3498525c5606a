package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vk/envgridgo/internal/ctxlog"
	"github.com/vk/envgridgo/internal/executor"
	"github.com/vk/envgridgo/internal/resolve"
	"github.com/vk/envgridgo/internal/shell"
)

// Run executes the main application logic based on the provided configuration.
// Environments run strictly sequentially, each to completion before the next
// starts; the first failing environment terminates the invocation.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.ListOnly {
		for _, name := range a.matrix.Names() {
			fmt.Fprintln(a.outW, name)
		}
		return nil
	}

	names := appConfig.Environments
	if len(names) == 0 {
		names = a.matrix.EnvList
	}
	if len(names) == 0 {
		return errors.New("no environments requested and the matrix declares no envlist")
	}

	exec := executor.New(shell.New(), executor.Options{
		KeepWorkdir: appConfig.KeepWorkdir,
		Stdin:       os.Stdin,
		Stdout:      a.outW,
		Stderr:      os.Stderr,
	})

	for _, name := range names {
		plan, err := resolve.Resolve(ctx, a.matrix, name)
		if err != nil {
			return err
		}
		if err := exec.Run(ctx, plan); err != nil {
			return fmt.Errorf("environment %q failed: %w", name, err)
		}
	}

	a.logger.Info("🏁 All requested environments finished.", "count", len(names))
	return nil
}
