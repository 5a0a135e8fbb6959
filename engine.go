package regexec

import "fmt"

// Engine selects which matching engine an Executor uses.
type Engine int

const (
	// Automatic picks the cheapest applicable engine per search: DFA when
	// the pattern allows it and only the whole match is wanted, then the
	// literal searcher, then the bounded backtracker, then the PikeVM.
	Automatic Engine = iota

	// Backtrack always uses the bounded backtracker. The caller asserts
	// that pattern and inputs stay within its memory budget.
	Backtrack

	// Nfa always uses the PikeVM simulation.
	Nfa

	// Literals always uses the literal searcher. Patterns that are not
	// pure literal alternations never match under this engine.
	Literals
)

// String returns the engine name as accepted by ParseEngine.
func (e Engine) String() string {
	switch e {
	case Automatic:
		return "automatic"
	case Backtrack:
		return "backtrack"
	case Nfa:
		return "nfa"
	case Literals:
		return "literals"
	default:
		return fmt.Sprintf("unknown(%d)", int(e))
	}
}

// ParseEngine converts an engine name to an Engine.
func ParseEngine(s string) (Engine, error) {
	switch s {
	case "automatic", "auto":
		return Automatic, nil
	case "backtrack":
		return Backtrack, nil
	case "nfa":
		return Nfa, nil
	case "literals":
		return Literals, nil
	}
	return Automatic, fmt.Errorf("unknown engine %q (want automatic, backtrack, nfa or literals)", s)
}
