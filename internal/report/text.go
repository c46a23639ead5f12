package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/wfdtrace/internal/exception"
)

var separator = strings.Repeat("-", 38)

// errWriter remembers the first write error so rendering code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func writeText(w io.Writer, run Run) error {
	ew := &errWriter{w: w}
	for i, d := range run.Documents {
		if i > 0 {
			ew.printf("\n")
		}
		ew.printf("Workflow: %s (%s)\n", d.Workflow, d.Document)

		if d.Err != nil {
			ew.printf("Error: %v\n", d.Err)
			ew.printf("%s\nExceptions: 0\n", separator)
			continue
		}

		records := run.visible(d)
		if len(records) == 0 {
			ew.printf("No exception found.\n")
		} else {
			ew.printf("\nExceptions found:\n")
			// Display ids count repeats per (id, group), so numbering inside
			// a group matches numbering over the whole list.
			for _, g := range exception.ByGroup(records) {
				ew.printf("\n== %s (%d) ==\n", exception.GroupLabel(g.Name), len(g.Records))
				ids := exception.DisplayIDs(g.Records)
				for j, r := range g.Records {
					path, ok := r.Trace()
					if !ok {
						path = exception.NoneValue
					}
					ew.printf("%s\n", separator)
					ew.printf("Condition ID: %s\n", ids[j])
					ew.printf("Condition Group: %s\n", r.ConditionGroup)
					ew.printf("Type: %s\n", r.Type)
					ew.printf("Format: %s\n", r.Format)
					ew.printf("Text: %s\n", r.Text)
					ew.printf("Workflow Path: %s\n", path)
				}
			}
		}
		ew.printf("%s\n", separator)
		ew.printf("Exceptions: %d\n", len(records))
	}
	return ew.err
}
