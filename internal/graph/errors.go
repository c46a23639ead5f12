package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrDuplicateNodeID indicates two elements claim the same id.
	ErrDuplicateNodeID = errors.New("duplicate node id")

	// ErrMissingID indicates the start element has no id attribute.
	ErrMissingID = errors.New("missing node id")
)

// DuplicateNodeIDError is returned under the reject policy when an id is
// assigned a second time. Wraps ErrDuplicateNodeID.
type DuplicateNodeIDError struct {
	ID       string
	Existing Kind // Kind of the node that already holds the id
	Incoming Kind // Kind of the element that tried to reuse it
}

func (e *DuplicateNodeIDError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %q is already a %s, cannot redefine as %s", ErrDuplicateNodeID.Error(), e.ID, e.Existing, e.Incoming)
}

func (e *DuplicateNodeIDError) Unwrap() error { return ErrDuplicateNodeID }

// MissingIDError is returned when the start element has no id. Other
// elements without an id are skipped instead. Wraps ErrMissingID.
type MissingIDError struct {
	Tag  string
	Path string // Element path within the document
}

func (e *MissingIDError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: <%s> at %s", ErrMissingID.Error(), e.Tag, e.Path)
}

func (e *MissingIDError) Unwrap() error { return ErrMissingID }
