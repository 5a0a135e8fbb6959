package program

import "fmt"

// ErrorKind classifies compile failures.
type ErrorKind uint8

const (
	// Syntax indicates the pattern text is not a valid expression.
	Syntax ErrorKind = iota

	// SizeLimitExceeded indicates the compiled program would exceed the
	// configured instruction budget.
	SizeLimitExceeded
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case Syntax:
		return "Syntax"
	case SizeLimitExceeded:
		return "SizeLimitExceeded"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// CompileError is the only failure mode of the Builder. Compilation either
// fully succeeds or fails with one of these; no partial program is ever
// returned.
type CompileError struct {
	Kind    ErrorKind
	Pattern string
	Cause   error // optional underlying error (e.g. from regexp/syntax)
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("compile %q: %s: %v", e.Pattern, e.Kind, e.Cause)
	}
	return fmt.Sprintf("compile %q: %s", e.Pattern, e.Kind)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is: two CompileErrors compare
// equal when their kinds match.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
