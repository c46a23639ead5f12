package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/wfdtrace/internal/graph"
	"github.com/specialistvlad/wfdtrace/internal/report"
)

// Command selects what a run does.
type Command string

const (
	CommandTrace   Command = "trace"
	CommandCatalog Command = "catalog"
)

// Config holds all the necessary configuration for an App instance to run.
// Zero values leave the configuration file (or its defaults) in charge.
type Config struct {
	Command    Command
	Path       string // workflow document or catalog directory
	ConfigPath string // optional HCL configuration file

	Format       string
	Groups       []string
	Workers      int
	DuplicateIDs string
	PublishURL   string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandTrace, CommandCatalog:
	case "":
		return nil, errors.New("Command is a required configuration field and cannot be empty")
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if cfg.Format != "" {
		if _, err := report.ParseFormat(cfg.Format); err != nil {
			return nil, err
		}
	}
	if cfg.DuplicateIDs != "" {
		if _, err := graph.ParseDuplicatePolicy(cfg.DuplicateIDs); err != nil {
			return nil, err
		}
	}
	if cfg.Workers < 0 {
		return nil, errors.New("workers cannot be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck-port %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
