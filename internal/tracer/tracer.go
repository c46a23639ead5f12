// Package tracer is the entry point collaborators use to trace a workflow
// document: it loads the document, builds its graph, extracts the exception
// definitions and resolves the path leading to each of them.
package tracer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/specialistvlad/wfdtrace/internal/ctxlog"
	"github.com/specialistvlad/wfdtrace/internal/document"
	"github.com/specialistvlad/wfdtrace/internal/exception"
	"github.com/specialistvlad/wfdtrace/internal/graph"
	"github.com/specialistvlad/wfdtrace/internal/pathfind"
	"golang.org/x/sync/errgroup"
)

// Options configures a Tracer.
type Options struct {
	Duplicates graph.DuplicatePolicy
	// Workers bounds concurrent path resolution. Zero or less uses GOMAXPROCS.
	Workers int
}

// Result is everything learned from one document.
type Result struct {
	Document *document.Document
	Graph    *graph.Graph
	Records  []exception.Record
	Warnings []pathfind.UnresolvedPathWarning
}

// Tracer runs the trace pipeline. It holds no per-document state and may be
// shared across goroutines.
type Tracer struct {
	opts Options
}

// New creates a Tracer.
func New(opts Options) *Tracer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Tracer{opts: opts}
}

// Workers returns the concurrency bound of the tracer.
func (t *Tracer) Workers() int {
	return t.opts.Workers
}

// BuildGraph loads the document at path and builds its graph.
func (t *Tracer) BuildGraph(ctx context.Context, path string) (*graph.Graph, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	return graph.Build(ctx, doc, graph.Options{Duplicates: t.opts.Duplicates})
}

// ExtractExceptions reads the exception definitions of the document at path
// and resolves each one's path in g, which must have been built from the same
// document. Unreachable conditions keep a nil path and produce a warning.
func (t *Tracer) ExtractExceptions(ctx context.Context, g *graph.Graph, path string) ([]exception.Record, []pathfind.UnresolvedPathWarning, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, nil, err
	}
	records := exception.Extract(doc)
	warnings, err := t.resolve(ctx, g, records)
	if err != nil {
		return nil, nil, err
	}
	return records, warnings, nil
}

// Trace runs the whole pipeline with a single load of the document.
func (t *Tracer) Trace(ctx context.Context, path string) (*Result, error) {
	ctx = ctxlog.With(ctx, "document", path)
	logger := ctxlog.FromContext(ctx)

	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	return t.TraceDocument(ctx, doc, logger.Debug)
}

// TraceDocument runs the pipeline on an already loaded document. progress, if
// non-nil, receives one message per completed stage.
func (t *Tracer) TraceDocument(ctx context.Context, doc *document.Document, progress func(msg string, args ...any)) (*Result, error) {
	if progress == nil {
		progress = func(string, ...any) {}
	}

	g, err := graph.Build(ctx, doc, graph.Options{Duplicates: t.opts.Duplicates})
	if err != nil {
		return nil, err
	}
	progress("Graph built.", "nodes", g.Len(), "start", g.Start())

	records := exception.Extract(doc)
	progress("Exceptions extracted.", "count", len(records))

	warnings, err := t.resolve(ctx, g, records)
	if err != nil {
		return nil, err
	}
	progress("Paths resolved.", "resolved", len(records)-len(warnings), "unresolved", len(warnings))

	return &Result{Document: doc, Graph: g, Records: records, Warnings: warnings}, nil
}

// resolve fills in the path of every record. Each resolution only reads the
// graph and writes its own slot, so the result does not depend on scheduling.
func (t *Tracer) resolve(ctx context.Context, g *graph.Graph, records []exception.Record) ([]pathfind.UnresolvedPathWarning, error) {
	start := g.Start()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(t.opts.Workers)
	for i := range records {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			records[i].Path = pathfind.Resolve(g, start, records[i].ConditionID)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("path resolution interrupted: %w", err)
	}

	logger := ctxlog.FromContext(ctx)
	var warnings []pathfind.UnresolvedPathWarning
	for _, r := range records {
		if r.Path != nil {
			continue
		}
		w := pathfind.UnresolvedPathWarning{ConditionID: r.ConditionID, Start: start, Dangling: !g.Has(r.ConditionID)}
		logger.Warn("Exception path could not be resolved.", "condition_id", r.ConditionID, "reason", w.Error())
		warnings = append(warnings, w)
	}
	return warnings, nil
}
