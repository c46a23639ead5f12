package exception

import (
	"fmt"
	"slices"
)

// displaySeparator joins a repeated condition id and its occurrence number.
const displaySeparator = "___"

// Group is the set of records sharing a condition group.
type Group struct {
	Name    string
	Records []Record
}

// GroupNames returns the distinct condition groups of records, sorted.
func GroupNames(records []Record) []string {
	var names []string
	for _, r := range records {
		if !slices.Contains(names, r.ConditionGroup) {
			names = append(names, r.ConditionGroup)
		}
	}
	slices.Sort(names)
	return names
}

// ByGroup buckets records by condition group. Groups appear in the order
// their first record appears; records keep their relative order.
func ByGroup(records []Record) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.ConditionGroup]
		if !ok {
			i = len(groups)
			index[r.ConditionGroup] = i
			groups = append(groups, Group{Name: r.ConditionGroup})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// Filter keeps the records whose group is one of groups. With no groups,
// every record is kept.
func Filter(records []Record, groups ...string) []Record {
	if len(groups) == 0 {
		return records
	}
	var kept []Record
	for _, r := range records {
		if slices.Contains(groups, r.ConditionGroup) {
			kept = append(kept, r)
		}
	}
	return kept
}

// DisplayIDs returns one display id per record. The first record for a given
// (condition id, group) pair keeps its id; later ones get "___1", "___2", ...
// appended so that each can be shown and annotated separately.
func DisplayIDs(records []Record) []string {
	type key struct{ id, group string }
	seen := make(map[key]int)
	ids := make([]string, len(records))
	for i, r := range records {
		k := key{r.ConditionID, r.ConditionGroup}
		count, ok := seen[k]
		if !ok {
			seen[k] = 0
			ids[i] = r.ConditionID
			continue
		}
		count++
		seen[k] = count
		ids[i] = fmt.Sprintf("%s%s%d", r.ConditionID, displaySeparator, count)
	}
	return ids
}

// GroupLabel returns the heading used for a group when presenting records.
func GroupLabel(group string) string {
	if group == NoneValue {
		return "No exception group"
	}
	return group
}
