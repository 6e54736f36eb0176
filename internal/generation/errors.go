package generation

import (
	"strings"
)

// Kind categorizes the error
type Kind string

const (
	KindUnmappedType Kind = "unmapped_type"
	KindInvalidInput Kind = "invalid_input"
)

// Sentinels for errors.Is; only the Kind is compared.
var (
	ErrUnmappedType = &Error{Kind: KindUnmappedType}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
)

// Error is the structured error returned by generation. Every Error aborts
// the run: there is no partial output mode.
type Error struct {
	Cause    error
	Kind     Kind
	Function string
	CType    string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))

	if e.Function != "" {
		b.WriteString(" in ")
		b.WriteString(e.Function)
	}

	if e.CType != "" {
		b.WriteString(": C type '")
		b.WriteString(e.CType)
		b.WriteByte('\'')
	}

	if e.Detail != "" {
		if e.CType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func unmappedType(cType string) *Error {
	return &Error{
		Kind:   KindUnmappedType,
		CType:  cType,
		Detail: "no marshalling is known for this spelling",
	}
}

// InvalidInput wraps a reader failure into an invalid_input error.
func InvalidInput(cause error) *Error {
	return &Error{
		Kind:   KindInvalidInput,
		Detail: "unusable API description",
		Cause:  cause,
	}
}

// Attaches the function being generated to err when it is an *Error without one.
func inFunction(err error, function string) error {
	if e, ok := err.(*Error); ok && e.Function == "" {
		withFunction := *e
		withFunction.Function = function
		return &withFunction
	}
	return err
}
