package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/vk/sitemeta/internal/config"
	"github.com/vk/sitemeta/internal/ctxlog"
	"github.com/vk/sitemeta/internal/generator"
	"github.com/vk/sitemeta/internal/hcl"
	"github.com/vk/sitemeta/internal/sink"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	job    *config.Model
	gen    *generator.Generator

	// newSinks is replaceable in tests.
	newSinks func(ctx context.Context) ([]sink.Sink, error)
}

// NewApp is the constructor for the main application. Confirmation lines go
// to outW and log records to logW. A job file that cannot be loaded is a
// fatal startup error and panics; the entrypoint recovers it.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if appConfig.EnvFile != "" {
		if err := godotenv.Load(appConfig.EnvFile); err != nil {
			panic(fmt.Errorf("failed to load env file: %w", err))
		}
		logger.Debug("Environment file loaded.", "path", appConfig.EnvFile)
	} else if err := godotenv.Load(); err == nil {
		logger.Debug("Environment file loaded.", "path", ".env")
	}

	job := config.Default()
	if appConfig.ConfigPath != "" {
		if loader == nil {
			loader = hcl.NewLoader()
		}
		loaded, err := loader.Load(ctx, appConfig.ConfigPath)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		job = loaded
		logger.Debug("Job file loaded.", "path", appConfig.ConfigPath)
	}
	if appConfig.OutputDir != "" {
		job.Output.Directory = appConfig.OutputDir
	}
	if appConfig.Sheet != "" {
		job.Source.Sheet = appConfig.Sheet
	}
	applyEnv(job, nil)

	opts := []generator.Option{}
	if job.Filter != nil {
		opts = append(opts, generator.WithFilter(hcl.NewFilter(job.Filter, job.Columns)))
	}

	a := &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		job:    job,
		gen:    generator.New(job.Columns, opts...),
	}
	a.newSinks = a.buildSinks
	return a
}

// Job returns the effective job configuration. This is primarily for testing.
func (a *App) Job() *config.Model {
	return a.job
}

// buildSinks creates the filesystem sink followed by one sink per publisher.
func (a *App) buildSinks(ctx context.Context) ([]sink.Sink, error) {
	logger := ctxlog.FromContext(ctx)
	sinks := []sink.Sink{sink.NewFilesystem(a.job.Output.Directory)}

	for _, p := range a.job.Publishers {
		var (
			s   sink.Sink
			err error
		)
		switch p.Kind {
		case config.PublisherS3:
			s, err = sink.NewS3(p.S3)
		case config.PublisherSocketIO:
			s, err = sink.NewSocketIO(p.SocketIO)
		default:
			err = fmt.Errorf("unknown publisher kind %q", p.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("publisher %q: %w", p.Kind, err)
		}
		logger.Debug("Publisher configured.", "sink", s.Name())
		sinks = append(sinks, s)
	}
	return sinks, nil
}
