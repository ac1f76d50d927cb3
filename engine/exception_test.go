package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluationError_Error(t *testing.T) {
	e := &EvaluationError{
		Cause:   ExceptionalValueZeroDivisor,
		Culprit: &Binary{Op: OperatorDiv, Left: &Literal{Value: NewInteger(1)}, Right: Variable("x")},
		Binding: Binding{{Variable: "x", Value: NewInteger(0)}},
	}
	assert.Equal(t, "evaluation error: zero_divisor in 1/x at x = 0", e.Error())
	assert.True(t, errors.Is(e, ExceptionalValueZeroDivisor))
	assert.False(t, errors.Is(e, ExceptionalValueUndefined))

	e = &EvaluationError{Cause: ExceptionalValueUndefined}
	assert.Equal(t, "evaluation error: undefined", e.Error())
}

func TestSyntaxError_Error(t *testing.T) {
	e := &SyntaxError{Input: "x +", Pos: 3, Err: errUnexpectedEOS}
	assert.Equal(t, `syntax error: unexpected end of expression at 3 in "x +"`, e.Error())
	assert.True(t, errors.Is(e, errUnexpectedEOS))
}

func TestVariableMismatchError_Error(t *testing.T) {
	e := &VariableMismatchError{A: []Variable{"x"}, B: []Variable{"x", "y"}}
	assert.Equal(t, "variable mismatch: {x} vs {x, y}", e.Error())
}

func TestCombinatorialLimitError_Error(t *testing.T) {
	e := &CombinatorialLimitError{Variables: 64, Points: 61, Count: -1, Limit: 100}
	assert.Equal(t, "combinatorial limit exceeded: 61^64 bindings overflow, limit is 100", e.Error())
}
