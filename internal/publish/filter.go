package publish

import (
	"github.com/specialistvlad/wfdtrace/internal/exception"
	"github.com/specialistvlad/wfdtrace/internal/report"
)

func filterRecords(d report.DocumentReport, groups []string) []exception.Record {
	if d.Err != nil {
		return nil
	}
	return exception.Filter(d.Records, groups...)
}
