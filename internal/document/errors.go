package document

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrMalformed indicates the input is not well-formed markup.
	ErrMalformed = errors.New("malformed document")

	// ErrMissingEntry indicates the document does not have exactly one start element.
	ErrMissingEntry = errors.New("missing entry element")
)

// MalformedDocumentError reports a document that could not be parsed.
// Wraps ErrMalformed for errors.Is() compatibility.
type MalformedDocumentError struct {
	Path string // Source path, empty for in-memory documents
	Err  error  // Underlying parser error, if any
}

func (e *MalformedDocumentError) Error() string {
	if e == nil {
		return ""
	}
	msg := ErrMalformed.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *MalformedDocumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.Err}
}

// MissingEntryError reports a document with zero or several start elements.
// Wraps ErrMissingEntry for errors.Is() compatibility.
type MissingEntryError struct {
	Path  string
	Found int // Number of start elements found
}

func (e *MissingEntryError) Error() string {
	if e == nil {
		return ""
	}
	where := ""
	if e.Path != "" {
		where = " in " + e.Path
	}
	if e.Found == 0 {
		return fmt.Sprintf("%s: no <%s> element%s", ErrMissingEntry.Error(), TagStart, where)
	}
	return fmt.Sprintf("%s: expected one <%s> element%s, found %d", ErrMissingEntry.Error(), TagStart, where, e.Found)
}

func (e *MissingEntryError) Unwrap() error { return ErrMissingEntry }
