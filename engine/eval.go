package engine

import (
	"errors"
)

var (
	unaryFunctions = [operatorLen]func(Number) (Number, error){
		OperatorNeg: Neg,
		OperatorPos: Pos,
	}
	binaryFunctions = [operatorLen]func(Number, Number) (Number, error){
		OperatorAdd: Add,
		OperatorSub: Sub,
		OperatorMul: Mul,
		OperatorDiv: Div,
		OperatorPow: Power,
	}
)

// Evaluate evaluates the expression with the binding.
// The only names the expression can refer to are the variables in the binding.
func Evaluate(e Expr, b Binding) (Number, error) {
	switch e := e.(type) {
	case *Literal:
		return e.Value, nil
	case Variable:
		v, ok := b.Lookup(e)
		if !ok {
			return nil, &EvaluationError{Cause: ExceptionalValueUnknownName, Culprit: e}
		}
		return v, nil
	case *Unary:
		f := unaryFunctions[e.Op]
		if f == nil {
			return nil, &EvaluationError{Cause: ExceptionalValueUndefined, Culprit: e}
		}
		x, err := Evaluate(e.Operand, b)
		if err != nil {
			return nil, err
		}
		r, err := f(x)
		if err != nil {
			return nil, culprit(err, e)
		}
		return r, nil
	case *Binary:
		f := binaryFunctions[e.Op]
		if f == nil {
			return nil, &EvaluationError{Cause: ExceptionalValueUndefined, Culprit: e}
		}
		x, err := Evaluate(e.Left, b)
		if err != nil {
			return nil, err
		}
		y, err := Evaluate(e.Right, b)
		if err != nil {
			return nil, err
		}
		r, err := f(x, y)
		if err != nil {
			return nil, culprit(err, e)
		}
		return r, nil
	default:
		return nil, &EvaluationError{Cause: ExceptionalValueUndefined, Culprit: e}
	}
}

// EvaluateString parses the expression and evaluates it with the binding.
func EvaluateString(expression string, b Binding) (Number, error) {
	e, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	return Evaluate(e, b)
}

func culprit(err error, e Expr) error {
	var ev ExceptionalValue
	if errors.As(err, &ev) {
		return &EvaluationError{Cause: ev, Culprit: e}
	}
	return err
}
