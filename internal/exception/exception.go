// Package exception extracts the exception definitions of a workflow document
// and provides the grouping views used to present them.
package exception

import (
	"github.com/beevik/etree"
	"github.com/specialistvlad/wfdtrace/internal/document"
	"github.com/specialistvlad/wfdtrace/internal/pathfind"
)

// NoneValue is the placeholder used for absent group and text values.
const NoneValue = "None"

// Record is one exception definition found in a workflow document.
type Record struct {
	ConditionID    string
	ConditionGroup string
	Type           string
	Format         string
	Text           string
	// Path is nil until resolved, and stays nil when the condition cannot be
	// reached from the start node.
	Path pathfind.Path
}

// Trace returns the rendered path and whether the record has one.
func (r Record) Trace() (string, bool) {
	if r.Path == nil {
		return "", false
	}
	return r.Path.String(), true
}

// Extract returns a record for every condition element of doc that carries a
// nested exception, in document order. Conditions outside the entry subtree
// are included; their paths will not resolve.
func Extract(doc *document.Document) []Record {
	var records []Record
	for _, cond := range doc.FindAll(document.TagCondition) {
		exc := document.FirstChild(cond, document.TagException)
		if exc == nil {
			continue
		}
		records = append(records, Record{
			ConditionID:    document.ID(cond),
			ConditionGroup: conditionGroup(cond),
			Type:           document.Attr(exc, document.AttrType, ""),
			Format:         document.Attr(exc, document.AttrFormat, ""),
			Text:           text(exc),
		})
	}
	return records
}

// conditionGroup returns the condition's group, defaulting to NoneValue.
func conditionGroup(cond *etree.Element) string {
	if g := cond.SelectAttr(document.AttrConditionGroup); g != nil {
		return g.Value
	}
	return document.Attr(cond, document.AttrConditionGroupLong, NoneValue)
}

// text returns the exception text, defaulting to NoneValue.
func text(exc *etree.Element) string {
	return document.Attr(exc, document.AttrText, NoneValue)
}
