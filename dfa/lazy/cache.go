package lazy

// cache stores materialized states up to a configured bound. When the
// bound is hit, insertion fails with a CacheFull error and the search is
// expected to fall back to an NFA engine.
type cache struct {
	states    []*state
	ids       map[string]StateID
	maxStates int
	hits      uint64
	misses    uint64
}

func newCache(maxStates int) *cache {
	return &cache{
		ids:       make(map[string]StateID),
		maxStates: maxStates,
	}
}

// lookup returns the state interned under key, if any.
func (c *cache) lookup(key []byte) (*state, bool) {
	if id, ok := c.ids[string(key)]; ok {
		c.hits++
		return c.states[id], true
	}
	c.misses++
	return nil, false
}

// insert interns a new state, copying pcs. It fails when the cache is at
// its bound.
func (c *cache) insert(key []byte, f ctxFlags, pcs []uint32) (*state, error) {
	if len(c.states) >= c.maxStates {
		return nil, newError(CacheFull, "state cache at limit %d", c.maxStates)
	}
	st := &state{
		id:    StateID(len(c.states)),
		flags: f,
		pcs:   append([]uint32(nil), pcs...),
		next:  make(map[byte]transition),
	}
	c.states = append(c.states, st)
	c.ids[string(key)] = st.id
	return st, nil
}

// get returns the state with the given id. The id must have come from this
// cache.
func (c *cache) get(id StateID) *state {
	return c.states[id]
}

// CacheStats reports cache occupancy and lookup effectiveness.
type CacheStats struct {
	// States is the number of materialized states.
	States int

	// Hits counts lookups answered from the cache.
	Hits uint64

	// Misses counts lookups that had to build a state.
	Misses uint64
}

func (c *cache) stats() CacheStats {
	return CacheStats{States: len(c.states), Hits: c.hits, Misses: c.misses}
}
