package lazy

// DefaultMaxStates bounds the state cache when no explicit limit is set.
// Pathological patterns (large counted repetitions, dense alternations)
// can otherwise materialize states without bound.
const DefaultMaxStates = 10000

// minMaxStates is the floor: below this the automaton cannot even hold its
// start states plus working room.
const minMaxStates = 8

// Config controls DFA resource bounds. The zero value is not valid; use
// NewConfig and the With methods.
type Config struct {
	maxStates int
}

// NewConfig returns the default configuration.
func NewConfig() Config {
	return Config{maxStates: DefaultMaxStates}
}

// WithMaxStates returns a copy of the config with the state cache bound
// set to n.
func (c Config) WithMaxStates(n int) Config {
	c.maxStates = n
	return c
}

// MaxStates returns the configured state cache bound.
func (c Config) MaxStates() int {
	return c.maxStates
}

func (c Config) validate() error {
	if c.maxStates < minMaxStates {
		return newError(InvalidConfig, "max states %d below minimum %d", c.maxStates, minMaxStates)
	}
	return nil
}
