package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/wfdtrace/internal/catalog"
	"github.com/specialistvlad/wfdtrace/internal/ctxlog"
	"github.com/specialistvlad/wfdtrace/internal/publish"
	"github.com/specialistvlad/wfdtrace/internal/report"
	"golang.org/x/sync/errgroup"
)

// target is one document to trace.
type target struct {
	document string
	workflow string
	// err is set when the catalog could not name a document for the workflow.
	err error
}

func (a *App) runTrace(ctx context.Context) error {
	runID := uuid.NewString()
	ctx = ctxlog.With(ctx, "run_id", runID)
	logger := ctxlog.FromContext(ctx)

	targets, single, err := a.targets(ctx)
	if err != nil {
		return err
	}
	logger.Info("Tracing workflow documents.", "count", len(targets), "path", a.settings.path)

	reports, err := a.traceAll(ctx, targets)
	if err != nil {
		return err
	}

	run := report.Run{ID: runID, Documents: reports, Groups: a.settings.groups}
	if err := report.Write(a.outW, a.settings.format, run); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if a.settings.publishURL != "" {
		if err := a.publish(ctx, run); err != nil {
			logger.Error("Publishing results failed.", "error", err)
			return err
		}
	}

	if single && reports[0].Err != nil {
		return reports[0].Err
	}
	return nil
}

// targets lists the documents to trace. A directory is read as a catalog;
// anything else is traced as a single document.
func (a *App) targets(ctx context.Context) ([]target, bool, error) {
	path := a.settings.path
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.IsDir() {
		return []target{{document: path, workflow: workflowName(path)}}, true, nil
	}

	entries, err := catalog.Discover(ctx, path, a.settings.suffix)
	if err != nil {
		return nil, false, err
	}
	targets := make([]target, 0, len(entries))
	for _, e := range entries {
		t := target{document: e.DiagramPath(), workflow: e.Info.Name, err: e.Err}
		if t.err == nil && t.document == "" {
			t.err = fmt.Errorf("workflow %q has no diagram", e.Info.Name)
		}
		if t.err != nil {
			t.document = e.ConfigPath
			t.workflow = e.Key()
		}
		targets = append(targets, t)
	}
	return targets, false, nil
}

// traceAll traces every target concurrently. A document that fails does not
// stop the others; only cancellation aborts the run.
func (a *App) traceAll(ctx context.Context, targets []target) ([]report.DocumentReport, error) {
	reports := make([]report.DocumentReport, len(targets))
	a.progress.start(len(targets))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.tracer.Workers())
	for i, t := range targets {
		eg.Go(func() error {
			reports[i] = report.DocumentReport{Document: t.document, Workflow: t.workflow, Err: t.err}
			if t.err != nil {
				a.progress.finish(true)
				return nil
			}
			res, err := a.tracer.Trace(egCtx, t.document)
			if err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				ctxlog.FromContext(egCtx).Error("Document could not be traced.", "document", t.document, "error", err)
				reports[i].Err = err
				a.progress.finish(true)
				return nil
			}
			reports[i].Records = res.Records
			reports[i].Warnings = res.Warnings
			a.progress.finish(false)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("trace run interrupted: %w", err)
	}
	return reports, nil
}

func (a *App) publish(ctx context.Context, run report.Run) error {
	p, err := publish.Connect(ctx, publish.Options{
		URL:       a.settings.publishURL,
		Namespace: a.settings.publishNS,
		Event:     a.settings.publishEvent,
		Timeout:   a.settings.publishTimeout,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	payloads := make([]publish.Payload, len(run.Documents))
	for i, d := range run.Documents {
		payloads[i] = publish.NewPayload(run.ID, d, run.Groups)
	}
	return p.Publish(ctx, payloads...)
}

func workflowName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
