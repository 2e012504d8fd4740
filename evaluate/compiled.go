package evaluate

import (
	"sync"

	"go.starlark.net/starlark"
)

const compiledKey = "tinydisplay.compiled"

// Compiled is a checked expression ready to run against a dataset.
// It also carries the state of changed() calls made by the expression.
type Compiled struct {
	source  string
	program *starlark.Program
	names   []string

	mu   sync.Mutex
	seen bool
	last starlark.Value
}

func (c *Compiled) Source() string {
	return c.source
}

func (c *Compiled) String() string {
	return c.source
}

// Names returns the free names the expression reads, sorted.
func (c *Compiled) Names() []string {
	return c.names
}

// observe must be called with c.mu held.
func (c *Compiled) observe(value starlark.Value) (bool, error) {
	value.Freeze()
	if !c.seen {
		c.seen = true
		c.last = value
		return false, nil
	}
	eq, err := starlark.Equal(c.last, value)
	if err != nil {
		return false, err
	}
	c.last = value
	return !eq, nil
}
