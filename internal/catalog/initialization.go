package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
)

const (
	// RootEventGroup holds the events of an event list that has no groups.
	RootEventGroup = "__root__"
	// NoCondition stands in for a prefilter without a condition attribute.
	NoCondition = "NO_CONDITION"
)

// EventGroup is a named set of events; each event is its attribute set.
type EventGroup struct {
	Name   string              `json:"name" yaml:"name"`
	Events []map[string]string `json:"events" yaml:"events"`
}

// PreFilterSet is the list of prefilter conditions sharing an entities value.
type PreFilterSet struct {
	Entities   string   `json:"entities" yaml:"entities"`
	Conditions []string `json:"conditions" yaml:"conditions"`
}

// Initialization summarizes an initialization document.
type Initialization struct {
	EventGroups []EventGroup   `json:"event_groups" yaml:"event_groups"`
	PreFilters  []PreFilterSet `json:"prefilters" yaml:"prefilters"`
}

// ReadInitialization parses the initialization document at path.
func ReadInitialization(path string) (*Initialization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open initialization file: %w", err)
	}
	defer f.Close()

	ini, err := ParseInitialization(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ini, nil
}

// ParseInitialization parses an initialization document. Bare ampersands are
// escaped before parsing, since production files do not escape them.
func ParseInitialization(r io.Reader) (*Initialization, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read initialization document: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(strings.ReplaceAll(string(raw), "&", "&amp;")); err != nil {
		return nil, fmt.Errorf("failed to parse initialization document: %w", err)
	}

	ini := &Initialization{}
	if list := doc.FindElement("//eventList"); list != nil {
		ini.EventGroups = eventGroups(list)
	}
	if list := doc.FindElement("//preFilterList"); list != nil {
		ini.PreFilters = preFilters(list)
	}
	return ini, nil
}

func eventGroups(list *etree.Element) []EventGroup {
	children := list.ChildElements()

	grouped := false
	for _, child := range children {
		if child.Tag != "event" {
			grouped = true
			break
		}
	}

	if !grouped {
		root := EventGroup{Name: RootEventGroup, Events: []map[string]string{}}
		for _, event := range children {
			root.Events = append(root.Events, attributes(event))
		}
		return []EventGroup{root}
	}

	var groups []EventGroup
	index := make(map[string]int)
	for _, group := range children {
		for _, event := range group.SelectElements("event") {
			i, ok := index[group.Tag]
			if !ok {
				i = len(groups)
				index[group.Tag] = i
				groups = append(groups, EventGroup{Name: group.Tag})
			}
			groups[i].Events = append(groups[i].Events, attributes(event))
		}
	}
	return groups
}

func preFilters(list *etree.Element) []PreFilterSet {
	var sets []PreFilterSet
	index := make(map[string]int)
	for _, pf := range list.SelectElements("preFilter") {
		entities := pf.SelectAttrValue("entities", "")
		condition := pf.SelectAttrValue("condition", NoCondition)

		i, ok := index[entities]
		if !ok {
			i = len(sets)
			index[entities] = i
			sets = append(sets, PreFilterSet{Entities: entities})
		}
		sets[i].Conditions = append(sets[i].Conditions, condition)
	}
	return sets
}

func attributes(el *etree.Element) map[string]string {
	attrs := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		attrs[a.Key] = a.Value
	}
	return attrs
}
