package document

// Element tags understood by the graph builder and the exception extractor.
const (
	TagStart          = "start"
	TagFork           = "fork"
	TagCondition      = "condition"
	TagConditionGroup = "conditionGroup"
	TagOperation      = "operation"
	TagJump           = "jump"
	TagLabel          = "label"
	TagEnd            = "end"

	TagSuccess   = "success"
	TagFailure   = "failure"
	TagException = "exception"
)

// Attribute names.
const (
	AttrID       = "id"
	AttrLocation = "location"

	// AttrConditionGroup is the short form used by production documents;
	// AttrConditionGroupLong is accepted as a fallback.
	AttrConditionGroup     = "conditionG"
	AttrConditionGroupLong = "conditionGroup"

	AttrType   = "type"
	AttrFormat = "format"
	AttrText   = "text"
)
