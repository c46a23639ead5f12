package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/wfdtrace/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// flags holds the raw flag values shared by the subcommands.
type flags struct {
	configPath      string
	format          string
	logFormat       string
	logLevel        string
	groups          []string
	workers         int
	duplicateIDs    string
	publishURL      string
	healthcheckPort int
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		f      flags
		config *app.Config
	)
	build := func(command app.Command, positional []string) error {
		cfg, err := f.toConfig(command, positional)
		if err != nil {
			return err
		}
		config = cfg
		return nil
	}

	if args == nil {
		args = []string{}
	}
	root := newRootCommand(&f, build)
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	if err := root.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if config == nil {
		// Help or version was printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func newRootCommand(f *flags, build func(app.Command, []string) error) *cobra.Command {
	root := &cobra.Command{
		Use:   "wfdtrace",
		Short: "Trace how a workflow diagram reaches each of its exceptions",
		Long: `wfdtrace reads workflow diagram documents, builds their control-flow graph
and reports every exception defined in them together with the path that leads
from the start of the workflow to the condition raising it.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Path to an HCL configuration file.")
	pf.StringVarP(&f.format, "format", "o", "", "Report format. Options: 'text', 'table', 'json', 'yaml'. Defaults to the config file, then 'text'.")
	pf.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&f.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	traceCmd := &cobra.Command{
		Use:   "trace [PATH]",
		Short: "Report the exceptions of a workflow document or of every workflow in a catalog",
		Long: `Report the exceptions of a workflow document or of every workflow in a catalog.

PATH is a single workflow diagram document, or a directory holding workflow
configuration files (*_cfg.xml). When omitted, catalog.xml_path from the
configuration file is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return build(app.CommandTrace, args)
		},
	}
	tf := traceCmd.Flags()
	tf.StringArrayVarP(&f.groups, "group", "g", nil, "Only report exceptions of this condition group. Repeatable.")
	tf.IntVarP(&f.workers, "workers", "w", 0, "Number of concurrent workers. 0 uses the config file, then the CPU count.")
	tf.StringVar(&f.duplicateIDs, "duplicate-ids", "", "Policy for repeated element ids. Options: 'reject' or 'overwrite'.")
	tf.StringVar(&f.publishURL, "publish-url", "", "socket.io endpoint to publish results to.")
	tf.IntVar(&f.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")

	catalogCmd := &cobra.Command{
		Use:   "catalog [DIR]",
		Short: "List the workflows of a catalog directory with their initialization summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return build(app.CommandCatalog, args)
		},
	}

	root.AddCommand(traceCmd, catalogCmd)
	return root
}

func (f *flags) toConfig(command app.Command, positional []string) (*app.Config, error) {
	path := ""
	if len(positional) > 0 {
		path = positional[0]
	}
	slog.Debug("Path determined.", "command", command, "path", path)

	config, err := app.NewConfig(app.Config{
		Command:         command,
		Path:            path,
		ConfigPath:      f.configPath,
		Format:          strings.ToLower(f.format),
		Groups:          f.groups,
		Workers:         f.workers,
		DuplicateIDs:    strings.ToLower(f.duplicateIDs),
		PublishURL:      f.publishURL,
		LogFormat:       strings.ToLower(f.logFormat),
		LogLevel:        strings.ToLower(f.logLevel),
		HealthcheckPort: f.healthcheckPort,
	})
	if err != nil {
		return nil, err
	}
	return config, nil
}
