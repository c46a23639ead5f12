package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/wfdtrace/internal/ctxlog"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	if a.config.HealthcheckPort > 0 {
		a.healthCheckServer()
		defer func() {
			if err := a.closeHealthCheckServer(); err != nil {
				a.logger.Warn("Health check server did not stop cleanly.", "error", err)
			}
		}()
	}

	var err error
	switch a.config.Command {
	case CommandTrace:
		err = a.runTrace(ctx)
	case CommandCatalog:
		err = a.runCatalog(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}
