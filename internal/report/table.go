package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/specialistvlad/wfdtrace/internal/exception"
)

// maxPathWidth wraps long traces instead of producing very wide tables.
const maxPathWidth = 80

func writeTable(w io.Writer, run Run) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Workflow", "Group", "Condition", "Type", "Format", "Text", "Path"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 7, WidthMax: maxPathWidth},
	})

	total := 0
	for _, d := range run.Documents {
		if d.Err != nil {
			t.AppendRow(table.Row{d.Workflow, "", "", "ERROR", "", d.Err.Error(), ""})
			continue
		}
		records := run.visible(d)
		ids := exception.DisplayIDs(records)
		for i, r := range records {
			path, ok := r.Trace()
			if !ok {
				path = exception.NoneValue
			}
			t.AppendRow(table.Row{d.Workflow, exception.GroupLabel(r.ConditionGroup), ids[i], r.Type, r.Format, r.Text, path})
		}
		total += len(records)
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Exceptions", total})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
