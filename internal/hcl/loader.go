package hcl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/envgridgo/internal/config"
	"github.com/vk/envgridgo/internal/ctxlog"
	"github.com/vk/envgridgo/internal/fsutil"
	"github.com/vk/envgridgo/internal/schema"
)

// Loader loads matrix configuration from HCL files.
type Loader struct{}

// NewLoader returns a ready-to-use HCL matrix loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader. The path may name a single .hcl file or a
// directory searched recursively; all discovered files contribute to one
// matrix. Exactly one defaults section is allowed across the whole set, and
// environment names must be unique across it too.
func (l *Loader) Load(ctx context.Context, path string) (*config.Matrix, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, &config.MalformedConfigError{Path: path, Err: err}
	}
	if len(files) == 0 {
		return nil, &config.MalformedConfigError{Path: path, Err: errors.New("no .hcl matrix files found")}
	}

	parser := hclparse.NewParser()

	var defaults *config.Environment
	var envList []string
	var envs []*config.Environment
	declaredIn := make(map[string]string)

	for _, file := range files {
		parsed, err := parseFile(file, parser)
		if err != nil {
			return nil, &config.MalformedConfigError{Path: file, Err: err}
		}

		if parsed.Defaults != nil {
			if defaults != nil {
				return nil, &config.MalformedConfigError{
					Path: file,
					Err:  errors.New("duplicate defaults section: only one defaults block is allowed across the matrix"),
				}
			}
			defaults, envList, err = translateDefaults(parsed.Defaults)
			if err != nil {
				return nil, &config.MalformedConfigError{Path: file, Err: err}
			}
		}

		for _, block := range parsed.Environments {
			if prev, dup := declaredIn[block.Name]; dup {
				return nil, &config.MalformedConfigError{
					Path: file,
					Err:  fmt.Errorf("duplicate environment %q (already declared in %s)", block.Name, prev),
				}
			}
			declaredIn[block.Name] = file

			env, err := translateEnvironment(block)
			if err != nil {
				return nil, &config.MalformedConfigError{Path: file, Err: err}
			}
			envs = append(envs, env)
		}
	}

	for _, name := range envList {
		if _, declared := declaredIn[name]; !declared {
			return nil, &config.MalformedConfigError{
				Path: path,
				Err:  fmt.Errorf("envlist names undeclared environment %q", name),
			}
		}
	}

	rootDir, err := matrixRootDir(path)
	if err != nil {
		return nil, &config.MalformedConfigError{Path: path, Err: err}
	}

	matrix := config.NewMatrix(defaults, envs, envList, rootDir)
	logger.Debug("Matrix loaded.", "files", len(files), "environments", len(envs), "root_dir", rootDir)
	return matrix, nil
}

// parseFile decodes one HCL file into the strict schema. Unknown attributes
// and blocks surface as diagnostics here.
func parseFile(filePath string, parser *hclparse.Parser) (*schema.File, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse: %w", diags)
	}

	var parsed schema.File
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode: %w", diags)
	}
	return &parsed, nil
}

// matrixRootDir resolves the directory that anchors repository-root runs and
// the {root} substitution.
func matrixRootDir(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}
	return filepath.Abs(path)
}
