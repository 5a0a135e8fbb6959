package lazy

import "fmt"

// ErrorKind classifies DFA errors.
type ErrorKind int

const (
	// CacheFull means the state cache reached its configured bound. The
	// caller should fall back to an NFA engine for this search.
	CacheFull ErrorKind = iota

	// InvalidConfig means the configuration failed validation.
	InvalidConfig

	// UnsupportedProgram means the program contains constructs the byte
	// automaton cannot execute, such as word boundary assertions.
	UnsupportedProgram
)

// String returns a human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case CacheFull:
		return "cache full"
	case InvalidConfig:
		return "invalid config"
	case UnsupportedProgram:
		return "unsupported program"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Error is the error type returned by this package.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lazy dfa: %s", e.Kind)
	}
	return fmt.Sprintf("lazy dfa: %s: %s", e.Kind, e.Message)
}

// Is reports whether target is a lazy DFA error of the same kind, which
// lets callers match with errors.Is against a kind-only template.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
