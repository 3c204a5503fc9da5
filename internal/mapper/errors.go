package mapper

import (
	"errors"
	"fmt"
)

// Row failure kinds, matched with errors.Is against a *RowError.
var (
	ErrIndexOutOfRange  = errors.New("row is shorter than the configured columns")
	ErrBadDate          = errors.New("unparsable date")
	ErrUnparsableAmount = errors.New("no parsable amount")
)

// RowError describes an input row that cannot be converted.
type RowError struct {
	Line        int    // 1-based input line, 0 if unknown
	Description string // row description, empty if it could not be read
	Err         error
}

func (e *RowError) Error() string {
	switch {
	case e.Line > 0 && e.Description != "":
		return fmt.Sprintf("line %d (%q): %v", e.Line, e.Description, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Description != "":
		return fmt.Sprintf("%q: %v", e.Description, e.Err)
	}
	return e.Err.Error()
}

func (e *RowError) Unwrap() error { return e.Err }
