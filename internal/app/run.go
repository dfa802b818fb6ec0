package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/vk/sitemeta/internal/ctxlog"
	"github.com/vk/sitemeta/internal/fsutil"
	"github.com/vk/sitemeta/internal/sink"
	"github.com/vk/sitemeta/internal/table"
)

// ErrRunFailed is returned by Run when FailOnError is set and at least one
// source could not be processed.
var ErrRunFailed = errors.New("metadata run failed")

// Run processes every source table. Each source is handled as one unit: any
// error aborts that source, is printed as a single "Error:" line and is
// otherwise swallowed unless FailOnError is set.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	failed := 0
	report := func(err error) {
		failed++
		logger.Error("Metadata generation failed.", "error", err)
		fmt.Fprintf(a.outW, "Error: %v\n", err)
	}

	sources, err := a.sources(ctx)
	if err != nil {
		report(err)
		return a.result(failed, 1)
	}
	if len(sources) == 0 {
		logger.Warn("No source tables found.", "path", a.config.SourcePath)
		return nil
	}

	sinks, err := a.newSinks(ctx)
	if err != nil {
		report(err)
		return a.result(failed, len(sources))
	}
	defer func() {
		for _, s := range sinks {
			if err := s.Close(ctx); err != nil {
				logger.Warn("Failed to close sink.", "sink", s.Name(), "error", err)
			}
		}
	}()

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			logger.Warn("Run interrupted, skipping remaining sources.", "error", err)
			break
		}
		srcCtx := ctxlog.With(ctx, "source", src)
		if err := a.processSource(srcCtx, src, sinks); err != nil {
			report(err)
		}
	}

	logger.Info("Run finished.", "sources", len(sources), "failed", failed)
	return a.result(failed, len(sources))
}

func (a *App) result(failed, total int) error {
	if failed > 0 && a.config.FailOnError {
		return fmt.Errorf("%w: %d of %d sources failed", ErrRunFailed, failed, total)
	}
	return nil
}

// sources expands the configured source path into table files.
func (a *App) sources(ctx context.Context) ([]string, error) {
	path := a.config.SourcePath
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access source %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := fsutil.FindFilesByExtension(path, table.Extensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Discovered source tables.", "path", path, "count", len(files))
	return files, nil
}

// processSource generates every document for one table before writing any of
// them, so a generation error leaves no output behind.
func (a *App) processSource(ctx context.Context, path string, sinks []sink.Sink) error {
	logger := ctxlog.FromContext(ctx)

	tbl, err := table.Read(ctx, path, table.Options{Sheet: a.job.Source.Sheet})
	if err != nil {
		return err
	}

	instances, err := a.gen.Generate(ctx, tbl)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, inst := range instances {
		data, err := inst.Encode(a.job.Output.Indent)
		if err != nil {
			return fmt.Errorf("failed to encode instance %q: %w", inst.Name, err)
		}
		doc := sink.Document{
			Instance:   inst.Name,
			FileName:   a.job.Output.FileName,
			SourcePath: path,
			Data:       data,
		}

		for _, s := range sinks {
			location, err := s.Write(ctx, doc)
			if err != nil {
				return fmt.Errorf("%s sink: %w", s.Name(), err)
			}
			if _, ok := s.(*sink.Filesystem); ok {
				fmt.Fprintf(a.outW, "Metadata file successfully created: %s\n", location)
				continue
			}
			logger.Info("Metadata published.", "sink", s.Name(), "instance", inst.Name, "location", location)
		}
	}
	return nil
}
