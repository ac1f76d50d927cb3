package engine

import (
	"fmt"
	"strings"
)

// ExceptionalValue is an evaluation's result which is not a number.
type ExceptionalValue uint8

// ExceptionalValue is one of these values.
const (
	ExceptionalValueFloatOverflow ExceptionalValue = iota
	ExceptionalValueIntOverflow
	ExceptionalValueZeroDivisor
	ExceptionalValueUndefined
	ExceptionalValueUnknownName
)

func (ev ExceptionalValue) Error() string {
	return [...]string{
		ExceptionalValueFloatOverflow: "float_overflow",
		ExceptionalValueIntOverflow:   "int_overflow",
		ExceptionalValueZeroDivisor:   "zero_divisor",
		ExceptionalValueUndefined:     "undefined",
		ExceptionalValueUnknownName:   "unknown_name",
	}[ev]
}

// EvaluationError is an error raised while evaluating an expression.
type EvaluationError struct {
	// Cause is the exceptional value the evaluation resulted in.
	Cause ExceptionalValue

	// Culprit is the sub-expression at fault.
	Culprit Expr

	// Binding is the binding the expression was evaluated with, if known.
	Binding Binding
}

func (e *EvaluationError) Error() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "evaluation error: %s", e.Cause)
	if e.Culprit != nil {
		_, _ = fmt.Fprintf(&sb, " in %s", e.Culprit)
	}
	if e.Binding != nil {
		_, _ = fmt.Fprintf(&sb, " at %s", e.Binding)
	}
	return sb.String()
}

// Unwrap returns the cause so that errors.Is(err, ExceptionalValueZeroDivisor) holds.
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

// SyntaxError is an error raised while parsing an expression.
type SyntaxError struct {
	Input string
	Pos   int
	Err   error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %v at %d in %q", e.Err, e.Pos, e.Input)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// NoVariablesError is an error that an expression contains none of the variables.
type NoVariablesError struct {
	Expression string
}

func (e *NoVariablesError) Error() string {
	return fmt.Sprintf("no variables in %q: expected at least one of %s", e.Expression, joinVariables(KnownVariables))
}

// VariableMismatchError is an error that two expressions don't share the same set of variables.
type VariableMismatchError struct {
	A, B []Variable
}

func (e *VariableMismatchError) Error() string {
	return fmt.Sprintf("variable mismatch: {%s} vs {%s}", joinVariables(e.A), joinVariables(e.B))
}

// CombinatorialLimitError is an error that the number of bindings exceeds the limit.
// Count is -1 if it doesn't even fit in an int.
type CombinatorialLimitError struct {
	Variables int
	Points    int
	Count     int
	Limit     int
}

func (e *CombinatorialLimitError) Error() string {
	if e.Count < 0 {
		return fmt.Sprintf("combinatorial limit exceeded: %d^%d bindings overflow, limit is %d", e.Points, e.Variables, e.Limit)
	}
	return fmt.Sprintf("combinatorial limit exceeded: %d^%d = %d bindings, limit is %d", e.Points, e.Variables, e.Count, e.Limit)
}

func joinVariables(vs []Variable) string {
	ss := make([]string, len(vs))
	for i, v := range vs {
		ss[i] = string(v)
	}
	return strings.Join(ss, ", ")
}
