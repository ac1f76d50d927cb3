package engine

import (
	"sort"
	"strings"
)

// Assignment is a value assigned to a variable.
type Assignment struct {
	Variable Variable
	Value    Number
}

// Binding is an assignment of a value to each variable, ordered by variable.
type Binding []Assignment

// NewBinding creates a binding from a map of variables to values.
func NewBinding(m map[Variable]Number) Binding {
	b := make(Binding, 0, len(m))
	for v, n := range m {
		b = append(b, Assignment{Variable: v, Value: n})
	}
	sort.Slice(b, func(i, j int) bool {
		return b[i].Variable < b[j].Variable
	})
	return b
}

// Lookup returns the value assigned to the variable.
func (b Binding) Lookup(v Variable) (Number, bool) {
	for _, a := range b {
		if a.Variable == v {
			return a.Value, true
		}
	}
	return nil, false
}

// Variables returns the variables of the binding in order.
func (b Binding) Variables() []Variable {
	vs := make([]Variable, len(b))
	for i, a := range b {
		vs[i] = a.Variable
	}
	return vs
}

func (b Binding) String() string {
	ss := make([]string, len(b))
	for i, a := range b {
		ss[i] = string(a.Variable) + " = " + a.Value.String()
	}
	return strings.Join(ss, ", ")
}
