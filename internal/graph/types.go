package graph

import "fmt"

// Kind is the type of a workflow step.
type Kind int

const (
	KindStart Kind = iota + 1
	KindFork
	KindCondition
	KindConditionGroup
	KindOperation
	// KindJump names the jump step type. Jumps only produce edges, so no
	// built node ever has this kind.
	KindJump
	KindLabel
	KindEnd
)

var kindNames = map[Kind]string{
	KindStart:          "Start",
	KindFork:           "Fork",
	KindCondition:      "Condition",
	KindConditionGroup: "ConditionGroup",
	KindOperation:      "Operation",
	KindJump:           "Jump",
	KindLabel:          "Label",
	KindEnd:            "End",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Edge labels.
const (
	LabelNone    = ""
	LabelSuccess = "Success"
	LabelFailure = "Failure"
)

// Exception is the error outcome attached to a condition step.
type Exception struct {
	Type   string
	Format string
	Text   string
}

// Node is a single step of the workflow.
type Node struct {
	ID   string
	Kind Kind
	// Exception is only ever set on KindCondition nodes.
	Exception *Exception
}

// Edge is a directed, labeled link between two steps.
type Edge struct {
	From  string
	To    string
	Label string
}

func (e Edge) String() string {
	return fmt.Sprintf("%s --[%s]--> %s", e.From, e.Label, e.To)
}
