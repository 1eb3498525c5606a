// Package workdir materializes the working directory an environment run
// executes in. Isolated directories are created fresh per run and owned
// exclusively by it; cleanup policy is decided by the caller.
package workdir

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/envgridgo/internal/config"
	"github.com/vk/envgridgo/internal/ctxlog"
)

// Materialize returns the directory the run's commands use as their current
// directory. For isolated-temp mode a fresh empty directory is created and
// isolated=true is returned so the caller knows it owns the cleanup
// decision. For repository-root mode the matrix root is returned untouched.
func Materialize(ctx context.Context, mode config.WorkdirMode, environment, rootDir string) (dir string, isolated bool, err error) {
	switch mode {
	case config.WorkdirIsolatedTemp:
		dir, err = os.MkdirTemp("", fmt.Sprintf("envgrid-%s-", environment))
		if err != nil {
			return "", false, fmt.Errorf("failed to create isolated working directory: %w", err)
		}
		ctxlog.FromContext(ctx).Debug("Isolated working directory created.", "dir", dir)
		return dir, true, nil
	case config.WorkdirRepositoryRoot:
		return rootDir, false, nil
	default:
		return "", false, fmt.Errorf("unrecognized workdir mode %q", mode)
	}
}
