package parse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a ParseError.
type ErrorKind string

// All parse error kinds.
const (
	InsufficientRows ErrorKind = "InsufficientRows"
	MissingColumns   ErrorKind = "MissingColumns"
)

// Sentinels for errors.Is matching against a *ParseError.
var (
	ErrInsufficientRows = errors.New("not enough rows")
	ErrMissingColumns   = errors.New("missing required columns")
)

// ParseError is returned by ParseTable for malformed input.
type ParseError struct {
	Kind    ErrorKind
	Lines   int      // set for InsufficientRows
	Missing []string // set for MissingColumns, in required-column order
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case InsufficientRows:
		return fmt.Sprintf("%s: need a header and at least one data row (got %d)", ErrInsufficientRows, e.Lines)
	case MissingColumns:
		return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Missing, ", "))
	default:
		return "parse error"
	}
}

// Unwrap exposes the sentinel matching e.Kind.
func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case InsufficientRows:
		return ErrInsufficientRows
	case MissingColumns:
		return ErrMissingColumns
	default:
		return nil
	}
}
