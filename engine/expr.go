package engine

import (
	"fmt"
	"strings"
)

// Expr is a node of an expression's abstract syntax tree.
// It's either *Literal, Variable, *Unary, or *Binary.
type Expr interface {
	fmt.Stringer
	expr()
}

// Literal is a number written in an expression.
type Literal struct {
	Value Number
}

func (*Literal) expr() {}

func (l *Literal) String() string {
	var sb strings.Builder
	writeExpr(&sb, l, maxPriority)
	return sb.String()
}

// Variable is a reference to a value in a Binding.
type Variable string

// KnownVariables are the variables an expression may refer to, in order.
var KnownVariables = []Variable{"x", "y", "z"}

// Known checks if the variable is one of KnownVariables.
func (v Variable) Known() bool {
	for _, k := range KnownVariables {
		if v == k {
			return true
		}
	}
	return false
}

func (Variable) expr() {}

func (v Variable) String() string {
	return string(v)
}

// Unary is an application of a prefix operator.
type Unary struct {
	Op      Operator
	Operand Expr
}

func (*Unary) expr() {}

func (u *Unary) String() string {
	var sb strings.Builder
	writeExpr(&sb, u, maxPriority)
	return sb.String()
}

// Binary is an application of an infix operator.
type Binary struct {
	Op          Operator
	Left, Right Expr
}

func (*Binary) expr() {}

func (b *Binary) String() string {
	var sb strings.Builder
	writeExpr(&sb, b, maxPriority)
	return sb.String()
}

// Operator is an arithmetic operation.
type Operator uint8

// Operator is one of these values.
const (
	OperatorAdd Operator = iota
	OperatorSub
	OperatorMul
	OperatorDiv
	OperatorPow
	OperatorNeg
	OperatorPos
	operatorLen
)

func (o Operator) String() string {
	return [operatorLen]string{
		OperatorAdd: "+",
		OperatorSub: "-",
		OperatorMul: "*",
		OperatorDiv: "/",
		OperatorPow: "**",
		OperatorNeg: "-",
		OperatorPos: "+",
	}[o]
}

func (o Operator) operator() operator {
	switch o {
	case OperatorNeg, OperatorPos:
		return prefixOperators[o.String()]
	default:
		return infixOperators[o.String()]
	}
}

// priority returns the priority of the expression when it's written out.
// Negative numbers and fractions are written as if they were operations.
func priority(e Expr) int {
	switch e := e.(type) {
	case *Literal:
		switch v := e.Value.(type) {
		case Rational:
			return infixOperators["/"].priority
		case Integer:
			if v.big().Sign() < 0 {
				return prefixOperators["-"].priority
			}
		case Float:
			if v < 0 {
				return prefixOperators["-"].priority
			}
		}
		return 0
	case *Unary:
		return e.Op.operator().priority
	case *Binary:
		return e.Op.operator().priority
	default:
		return 0
	}
}

func writeExpr(sb *strings.Builder, e Expr, max int) {
	p := priority(e)
	if p > max {
		_, _ = sb.WriteString("(")
		defer sb.WriteString(")")
	}

	switch e := e.(type) {
	case *Literal:
		_, _ = sb.WriteString(e.Value.String())
	case Variable:
		_, _ = sb.WriteString(string(e))
	case *Unary:
		_, r := e.Op.operator().bindingPriorities()
		_, _ = sb.WriteString(e.Op.String())
		writeExpr(sb, e.Operand, r)
	case *Binary:
		l, r := e.Op.operator().bindingPriorities()
		writeExpr(sb, e.Left, l)
		switch e.Op {
		case OperatorAdd, OperatorSub:
			_, _ = fmt.Fprintf(sb, " %s ", e.Op)
		default:
			_, _ = sb.WriteString(e.Op.String())
		}
		writeExpr(sb, e.Right, r)
	}
}
