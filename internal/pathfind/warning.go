package pathfind

import "fmt"

// UnresolvedPathWarning records an exception whose condition cannot be
// reached from the start node. It is reported, never returned as a failure.
type UnresolvedPathWarning struct {
	ConditionID string
	Start       string
	// Dangling is set when the condition is not a node of the graph at all,
	// typically because it sits outside the entry subtree.
	Dangling bool
}

func (w UnresolvedPathWarning) Error() string {
	if w.Dangling {
		return fmt.Sprintf("unresolved path: condition %q is not part of the workflow graph", w.ConditionID)
	}
	return fmt.Sprintf("unresolved path: condition %q is unreachable from %q", w.ConditionID, w.Start)
}
