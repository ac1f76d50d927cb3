package engine

import (
	"sort"
)

// ExtractVariables returns the sorted set of known variables which appear in the expression as whole tokens.
// Identifiers which merely contain a variable's name, such as xy, don't count.
func ExtractVariables(expression string) ([]Variable, error) {
	ts, err := NewLexer(expression).Tokens()
	if err != nil {
		var pos int
		if ure, ok := err.(UnexpectedRuneError); ok {
			pos = ure.Pos
		}
		return nil, &SyntaxError{Input: expression, Pos: pos, Err: err}
	}

	seen := map[Variable]struct{}{}
	for _, t := range ts {
		if t.Kind != TokenIdent {
			continue
		}
		if v := Variable(t.Val); v.Known() {
			seen[v] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil, &NoVariablesError{Expression: expression}
	}

	vs := make([]Variable, 0, len(seen))
	for v := range seen {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool {
		return vs[i] < vs[j]
	})
	return vs, nil
}

// SameVariables checks if a and b consist of the same variables regardless of order.
func SameVariables(a, b []Variable) bool {
	set := make(map[Variable]int, len(a))
	for _, v := range a {
		set[v] |= 1
	}
	for _, v := range b {
		set[v] |= 2
	}
	for _, s := range set {
		if s != 3 {
			return false
		}
	}
	return true
}
