package errs

import (
	"errors"
	"fmt"
)

// Kind is the category of a failure reported by the graph pipeline.
type Kind string

const (
	// MissingInput: no dataset to build from, or a referenced seed is absent
	MissingInput Kind = "missing_input"
	// NotBuilt: an operation that needs a constructed graph got none
	NotBuilt Kind = "not_built"
	// MalformedDataset: required collections or record fields are absent or invalid
	MalformedDataset Kind = "malformed_dataset"
	// IOFailure: file not found, unreadable or unwritable
	IOFailure Kind = "io_failure"
	// UnsupportedFormat: a value or file has no representable portable form
	UnsupportedFormat Kind = "unsupported_format"
	// InvalidArgument: a caller-supplied parameter is out of range
	InvalidArgument Kind = "invalid_argument"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrMissingInput      = &Error{Kind: MissingInput}
	ErrNotBuilt          = &Error{Kind: NotBuilt}
	ErrMalformedDataset  = &Error{Kind: MalformedDataset}
	ErrIOFailure         = &Error{Kind: IOFailure}
	ErrUnsupportedFormat = &Error{Kind: UnsupportedFormat}
	ErrInvalidArgument   = &Error{Kind: InvalidArgument}
)

// Error carries a kind, the operation that failed and an optional cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

// E builds an error of the given kind with a formatted message.
func E(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and op to a cause.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a bare sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
