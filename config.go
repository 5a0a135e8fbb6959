package regexec

import "github.com/coregx/regexec/program"

// Config controls how an Executor compiles and runs a pattern. The zero
// value is not valid; use NewConfig and the With methods.
type Config struct {
	engine       Engine
	sizeLimit    int
	bytes        bool
	dfaMaxStates int
}

// NewConfig returns the default configuration: automatic engine choice,
// the default program size limit, character-mode addressing and the
// default DFA state bound.
func NewConfig() Config {
	return Config{
		engine:       Automatic,
		sizeLimit:    program.DefaultSizeLimit,
		dfaMaxStates: 0, // resolved to the lazy package default
	}
}

// WithEngine returns a copy of the config pinned to the given engine.
func (c Config) WithEngine(e Engine) Config {
	c.engine = e
	return c
}

// WithSizeLimit returns a copy of the config with the compiled program
// size limit set to n instructions.
func (c Config) WithSizeLimit(n int) Config {
	c.sizeLimit = n
	return c
}

// WithBytes returns a copy of the config selecting byte-mode addressing
// for the general program. Byte mode treats the input as raw bytes and
// restricts \b and \B to ASCII word characters.
func (c Config) WithBytes(on bool) Config {
	c.bytes = on
	return c
}

// WithDFAMaxStates returns a copy of the config with the lazy DFA state
// cache bound set to n. Zero means the package default.
func (c Config) WithDFAMaxStates(n int) Config {
	c.dfaMaxStates = n
	return c
}

// Engine returns the configured engine.
func (c Config) Engine() Engine { return c.engine }

// SizeLimit returns the configured program size limit.
func (c Config) SizeLimit() int { return c.sizeLimit }

// Bytes reports whether byte-mode addressing is configured.
func (c Config) Bytes() bool { return c.bytes }

// DFAMaxStates returns the configured DFA state bound, 0 for the default.
func (c Config) DFAMaxStates() int { return c.dfaMaxStates }
