package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/sitemeta/internal/ctxlog"
)

// Filesystem writes each document to <root>/<instance>/<file name>. When root
// is empty the directory containing the source table is used.
type Filesystem struct {
	root string
}

// NewFilesystem creates a filesystem sink rooted at root.
func NewFilesystem(root string) *Filesystem {
	return &Filesystem{root: root}
}

// Name implements Sink.
func (f *Filesystem) Name() string { return "filesystem" }

// Write creates the instance directory if needed and overwrites the file.
func (f *Filesystem) Write(ctx context.Context, doc Document) (string, error) {
	logger := ctxlog.FromContext(ctx)

	if !filepath.IsLocal(doc.Instance) {
		return "", fmt.Errorf("instance name %q is not a valid directory name", doc.Instance)
	}

	root := f.root
	if root == "" {
		root = filepath.Dir(doc.SourcePath)
	}
	dir := filepath.Join(root, doc.Instance)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	path := filepath.Join(dir, doc.FileName)
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write '%s': %w", path, err)
	}
	logger.Debug("Document written.", "path", path, "bytes", len(doc.Data))
	return path, nil
}

// Close implements Sink.
func (f *Filesystem) Close(context.Context) error { return nil }
