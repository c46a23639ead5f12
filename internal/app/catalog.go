package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/wfdtrace/internal/catalog"
	"github.com/specialistvlad/wfdtrace/internal/ctxlog"
	"github.com/specialistvlad/wfdtrace/internal/report"
)

func (a *App) runCatalog(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	entries, err := catalog.Discover(ctx, a.settings.path, a.settings.suffix)
	if err != nil {
		return err
	}
	logger.Info("Catalog scanned.", "path", a.settings.path, "workflows", len(entries))

	listed := make([]report.CatalogEntry, len(entries))
	for i, e := range entries {
		listed[i] = report.CatalogEntry{Entry: e}
		path := e.InitializationPath()
		if e.Err != nil || path == "" {
			continue
		}
		ini, err := catalog.ReadInitialization(path)
		if err != nil {
			logger.Warn("Initialization document could not be read.", "workflow", e.Info.Name, "path", path, "error", err)
			listed[i].Err = err
			continue
		}
		listed[i].Init = ini
	}

	if err := report.WriteCatalog(a.outW, a.settings.format, listed); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
