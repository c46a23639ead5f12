package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/specialistvlad/wfdtrace/internal/config"
	"github.com/specialistvlad/wfdtrace/internal/ctxlog"
	"github.com/specialistvlad/wfdtrace/internal/graph"
	"github.com/specialistvlad/wfdtrace/internal/report"
	"github.com/specialistvlad/wfdtrace/internal/tracer"
)

// settings is the configuration file merged with the command-line overrides.
type settings struct {
	path           string
	suffix         string
	format         report.Format
	groups         []string
	workers        int
	duplicates     graph.DuplicatePolicy
	publishURL     string
	publishNS      string
	publishEvent   string
	publishTimeout time.Duration
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	settings   settings
	tracer     *tracer.Tracer
	httpServer *http.Server
	progress   progress
}

// NewApp is the constructor for the main application. Reports are written to
// outW and logs to logW, so that machine-readable output stays clean.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	file := config.Default()
	if cfg.ConfigPath != "" {
		loaded, err := config.Load(ctx, cfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		file = loaded
	}

	s, err := merge(file, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration resolved.", "command", cfg.Command, "path", s.path, "format", s.format, "workers", s.workers, "duplicate_ids", s.duplicates)

	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		settings: s,
		tracer:   tracer.New(tracer.Options{Duplicates: s.duplicates, Workers: s.workers}),
	}, nil
}

// merge applies the command-line overrides on top of the configuration file.
func merge(file *config.File, cfg *Config) (settings, error) {
	s := settings{
		path:         file.Catalog.XMLPath,
		suffix:       file.Catalog.Suffix,
		groups:       file.Trace.Groups,
		workers:      file.Trace.Workers,
		publishURL:   file.Publish.URL,
		publishNS:    file.Publish.Namespace,
		publishEvent: file.Publish.Event,
	}
	if cfg.Path != "" {
		s.path = cfg.Path
	}
	if len(cfg.Groups) > 0 {
		s.groups = cfg.Groups
	}
	if cfg.Workers > 0 {
		s.workers = cfg.Workers
	}
	if cfg.PublishURL != "" {
		s.publishURL = cfg.PublishURL
	}

	format := file.Output.Format
	if cfg.Format != "" {
		format = cfg.Format
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return settings{}, err
	}
	s.format = f

	duplicates := file.Trace.DuplicateIDs
	if cfg.DuplicateIDs != "" {
		duplicates = cfg.DuplicateIDs
	}
	if s.duplicates, err = graph.ParseDuplicatePolicy(duplicates); err != nil {
		return settings{}, err
	}

	if s.publishTimeout, err = time.ParseDuration(file.Publish.Timeout); err != nil {
		return settings{}, fmt.Errorf("invalid publish timeout %q: %w", file.Publish.Timeout, err)
	}

	if s.path == "" {
		return settings{}, fmt.Errorf("no path given for %s: pass one as an argument or set catalog.xml_path", cfg.Command)
	}
	return s, nil
}
