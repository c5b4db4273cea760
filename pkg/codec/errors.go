package codec

import (
	"fmt"
)

// FormatError reports a source row or byte region that does not match the
// record schema. Offset is -1 when the error is not tied to a byte position.
type FormatError struct {
	Field  string
	Offset int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "format error"
	if e.Field != "" {
		msg += " in " + e.Field
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
