package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/sitemeta/internal/config"
	"github.com/vk/sitemeta/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL job file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and translates the job file at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %s: %w", path, err)
	}
	return l.Parse(ctx, path, src)
}

// Parse translates HCL source into the configuration model. filename is used
// for diagnostics and to resolve a relative output directory.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", filename)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse job file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode job file %s: %w", filename, diags)
	}

	model := config.Default()
	if err := l.translate(ctx, &root, filepath.Dir(filename), model); err != nil {
		return nil, fmt.Errorf("job file %s: %w", filename, err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("job file %s: %w", filename, err)
	}

	logger.Debug("HCL loading complete.",
		"sheet", model.Source.Sheet,
		"output_dir", model.Output.Directory,
		"filter", model.Filter != nil,
		"publishers", len(model.Publishers),
	)
	return model, nil
}
