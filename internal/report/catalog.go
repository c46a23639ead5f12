package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/specialistvlad/wfdtrace/internal/catalog"
	"gopkg.in/yaml.v3"
)

// CatalogEntry is one listed workflow with its initialization summary.
// Init is nil when the workflow has no initialization document or it could
// not be read; Err then explains why.
type CatalogEntry struct {
	Entry catalog.Entry
	Init  *catalog.Initialization
	Err   error
}

type catalogDoc struct {
	Key            string                  `json:"key" yaml:"key"`
	Config         string                  `json:"config" yaml:"config"`
	Workflow       string                  `json:"workflow" yaml:"workflow"`
	Diagram        string                  `json:"diagram" yaml:"diagram"`
	Initialization *catalog.Initialization `json:"initialization" yaml:"initialization"`
	Error          string                  `json:"error,omitempty" yaml:"error,omitempty"`
}

// WriteCatalog renders a catalog listing. Text and table formats both
// produce a table.
func WriteCatalog(w io.Writer, format Format, entries []CatalogEntry) error {
	switch format {
	case FormatJSON, FormatYAML:
		docs := make([]catalogDoc, len(entries))
		for i, e := range entries {
			docs[i] = catalogDoc{
				Key:            e.Entry.Key(),
				Config:         e.Entry.ConfigPath,
				Workflow:       e.Entry.Info.Name,
				Diagram:        e.Entry.DiagramPath(),
				Initialization: e.Init,
			}
			if err := entryErr(e); err != nil {
				docs[i].Error = err.Error()
			}
		}
		if format == FormatYAML {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(docs); err != nil {
				return fmt.Errorf("failed to encode YAML catalog: %w", err)
			}
			return enc.Close()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("failed to encode JSON catalog: %w", err)
		}
		return nil
	case FormatText, FormatTable, "":
		return writeCatalogTable(w, entries)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

func writeCatalogTable(w io.Writer, entries []CatalogEntry) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Key", "Workflow", "Diagram", "Event groups", "Events", "Prefilters", "Error"})
	for _, e := range entries {
		groups, events, prefilters := 0, 0, 0
		if e.Init != nil {
			groups = len(e.Init.EventGroups)
			for _, g := range e.Init.EventGroups {
				events += len(g.Events)
			}
			for _, p := range e.Init.PreFilters {
				prefilters += len(p.Conditions)
			}
		}
		msg := ""
		if err := entryErr(e); err != nil {
			msg = err.Error()
		}
		t.AppendRow(table.Row{e.Entry.Key(), e.Entry.Info.Name, e.Entry.Info.Diagram, groups, events, prefilters, msg})
	}
	t.AppendFooter(table.Row{"", "Workflows", len(entries)})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func entryErr(e CatalogEntry) error {
	if e.Entry.Err != nil {
		return e.Entry.Err
	}
	return e.Err
}
