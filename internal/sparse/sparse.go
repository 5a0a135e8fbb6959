// Package sparse provides a sparse set over program counters.
//
// A sparse set supports O(1) insert, membership testing and clearing while
// keeping a dense list of members in insertion order. The NFA simulator
// relies on both properties: membership bounds each step to at most one
// thread per program counter, and the dense insertion order preserves
// thread priority.
package sparse

// Set is a set of uint32 program counters. The universe (the program
// length) is fixed at construction.
type Set struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32 // members in insertion order
	size   uint32
}

// NewSet creates a set able to hold values in [0, capacity).
func NewSet(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set. It reports whether the value was newly
// added (false when already present).
func (s *Set) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	s.dense = append(s.dense, value)
	s.sparse[value] = s.size
	s.size++
	return true
}

// Contains reports whether value is in the set.
func (s *Set) Contains(value uint32) bool {
	if value >= uint32(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return idx < s.size && s.dense[idx] == value
}

// Clear removes all members in O(1).
func (s *Set) Clear() {
	s.size = 0
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *Set) Len() int {
	return int(s.size)
}

// Values returns the members in insertion order. The slice is valid until
// the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense[:s.size]
}
