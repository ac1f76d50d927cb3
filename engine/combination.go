package engine

import (
	"math"
)

// Combinations generates a binding for every combination of test points assigned to the variables.
// The last variable varies fastest. Bindings are generated lazily so that the whole sequence never has to be in memory.
type Combinations struct {
	vars      []Variable
	catalogue Catalogue

	indices []int
	index   int
	started bool
	done    bool
}

// NewCombinations creates a generator of bindings of vars to the test points in c.
func NewCombinations(vars []Variable, c Catalogue) *Combinations {
	vs := make([]Variable, len(vars))
	copy(vs, vars)
	return &Combinations{vars: vs, catalogue: c}
}

// Len returns the number of bindings, n^k for n test points and k variables.
// It returns false if the number doesn't fit in int.
func (c *Combinations) Len() (int, bool) {
	n, m := 1, c.catalogue.Len()
	for range c.vars {
		if m != 0 && n > math.MaxInt/m {
			return 0, false
		}
		n *= m
	}
	return n, true
}

// Check returns CombinatorialLimitError if the number of bindings exceeds limit. Non-positive limit means no limit.
func (c *Combinations) Check(limit int) error {
	n, ok := c.Len()
	switch {
	case !ok:
		return &CombinatorialLimitError{Variables: len(c.vars), Points: c.catalogue.Len(), Count: -1, Limit: limit}
	case limit > 0 && n > limit:
		return &CombinatorialLimitError{Variables: len(c.vars), Points: c.catalogue.Len(), Count: n, Limit: limit}
	default:
		return nil
	}
}

// Next proceeds to the next binding and returns true if there's such a binding.
func (c *Combinations) Next() bool {
	switch {
	case c.done:
		return false
	case !c.started:
		c.started = true
		if len(c.vars) > 0 && c.catalogue.Len() == 0 {
			c.done = true
			return false
		}
		c.indices = make([]int, len(c.vars))
		c.index = 0
		return true
	}

	for i := len(c.indices) - 1; i >= 0; i-- {
		c.indices[i]++
		if c.indices[i] < c.catalogue.Len() {
			c.index++
			return true
		}
		c.indices[i] = 0
	}
	c.done = true
	return false
}

// Index returns the position of the current binding in the sequence, starting from 0.
func (c *Combinations) Index() int {
	return c.index
}

// Binding returns the current binding. The returned binding is owned by the caller.
func (c *Combinations) Binding() Binding {
	b := make(Binding, len(c.vars))
	for i, v := range c.vars {
		b[i] = Assignment{Variable: v, Value: c.catalogue.At(c.indices[i]).Value}
	}
	return b
}

// Reset rewinds the generator to the beginning of the sequence.
func (c *Combinations) Reset() {
	c.indices = nil
	c.index = 0
	c.started = false
	c.done = false
}
