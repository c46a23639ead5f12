package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/specialistvlad/wfdtrace/internal/exception"
	"gopkg.in/yaml.v3"
)

type runDoc struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Documents []documentDoc `json:"documents" yaml:"documents"`
}

type documentDoc struct {
	Document   string `json:"document" yaml:"document"`
	Workflow   string `json:"workflow" yaml:"workflow"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	Unresolved int    `json:"unresolved" yaml:"unresolved"`
	// Groups lists every condition group of the document, before filtering.
	Groups     []string `json:"groups" yaml:"groups"`
	Exceptions []Entry  `json:"exceptions" yaml:"exceptions"`
}

func structured(run Run) runDoc {
	out := runDoc{RunID: run.ID, Documents: make([]documentDoc, 0, len(run.Documents))}
	for _, d := range run.Documents {
		doc := documentDoc{
			Document:   d.Document,
			Workflow:   d.Workflow,
			Unresolved: len(d.Warnings),
			Groups:     exception.GroupNames(d.Records),
			Exceptions: Entries(run.visible(d)),
		}
		if d.Err != nil {
			doc.Error = d.Err.Error()
		}
		out.Documents = append(out.Documents, doc)
	}
	return out
}

func writeJSON(w io.Writer, run Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(structured(run)); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, run Run) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(structured(run)); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return enc.Close()
}
