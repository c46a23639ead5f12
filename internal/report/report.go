// Package report renders trace results for people and for other programs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/wfdtrace/internal/exception"
	"github.com/specialistvlad/wfdtrace/internal/pathfind"
)

// Format selects a renderer.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be 'text', 'table', 'json' or 'yaml'", s)
	}
}

// DocumentReport is the outcome of tracing one document. Err is set when the
// document could not be traced; Records is then empty.
type DocumentReport struct {
	Document string
	Workflow string
	Records  []exception.Record
	Warnings []pathfind.UnresolvedPathWarning
	Err      error
}

// Run is the set of documents traced by one invocation.
type Run struct {
	ID        string
	Documents []DocumentReport
	// Groups restricts the rendered records to these condition groups.
	Groups []string
}

// Entry is the serialized form of an exception record.
type Entry struct {
	ConditionID    string  `json:"condition_id" yaml:"condition_id"`
	ConditionGroup string  `json:"condition_group" yaml:"condition_group"`
	Type           string  `json:"type" yaml:"type"`
	Format         string  `json:"format" yaml:"format"`
	Text           string  `json:"text" yaml:"text"`
	Path           *string `json:"path" yaml:"path"`
}

// NewEntry converts a record; an unresolved path becomes a nil Path.
func NewEntry(r exception.Record) Entry {
	e := Entry{
		ConditionID:    r.ConditionID,
		ConditionGroup: r.ConditionGroup,
		Type:           r.Type,
		Format:         r.Format,
		Text:           r.Text,
	}
	if trace, ok := r.Trace(); ok {
		e.Path = &trace
	}
	return e
}

// Entries converts records in order.
func Entries(records []exception.Record) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = NewEntry(r)
	}
	return entries
}

// Write renders run to w.
func Write(w io.Writer, format Format, run Run) error {
	switch format {
	case FormatText, "":
		return writeText(w, run)
	case FormatTable:
		return writeTable(w, run)
	case FormatJSON:
		return writeJSON(w, run)
	case FormatYAML:
		return writeYAML(w, run)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// visible applies the run's group filter.
func (r Run) visible(d DocumentReport) []exception.Record {
	return exception.Filter(d.Records, r.Groups...)
}
