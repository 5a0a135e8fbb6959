package lazy

// StateID identifies a materialized state within one DFA instance.
type StateID uint32

const (
	// invalidState marks an absent entry, e.g. an unbuilt start state.
	invalidState StateID = 1<<32 - 1

	// deadState is the sink: no match can complete on this path.
	deadState StateID = 1<<32 - 2
)

// ctxFlags record the look-behind context a state was entered under. The
// symmetric look-ahead side is derived per transition from the byte being
// consumed, so it never needs to be part of the state.
type ctxFlags uint8

const (
	// flagStartText is set when the state is entered at the text start.
	flagStartText ctxFlags = 1 << iota

	// flagStartLine is set at the text start or just after a newline.
	flagStartLine
)

// numStartStates is the number of distinct context flag combinations.
const numStartStates = 4

// transition is a cached outgoing edge: where the byte leads, and whether
// the match instruction was reachable at the position before consuming it.
// The match bit is per-edge rather than per-state because reachability of
// the match instruction can depend on the look-ahead the byte provides.
type transition struct {
	next  StateID
	match bool
}

// state is one lazily built DFA state: the program counters the NFA
// simulation would hold before epsilon closure, plus the context flags the
// closure will need. The counters are kept in priority order; two states
// with the same counters in different orders are distinct on purpose,
// since order decides leftmost-first ties.
type state struct {
	id    StateID
	flags ctxFlags
	pcs   []uint32
	next  map[byte]transition
}

// stateKey builds the canonical cache key for a (flags, counters) pair.
func stateKey(buf []byte, f ctxFlags, pcs []uint32) []byte {
	buf = append(buf[:0], byte(f))
	for _, pc := range pcs {
		buf = append(buf, byte(pc), byte(pc>>8), byte(pc>>16), byte(pc>>24))
	}
	return buf
}
