package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Expr(t *testing.T) {
	var (
		x   = Variable("x")
		y   = Variable("y")
		z   = Variable("z")
		lit = func(n int64) *Literal {
			return &Literal{Value: NewInteger(n)}
		}
		bin = func(op Operator, l, r Expr) *Binary {
			return &Binary{Op: op, Left: l, Right: r}
		}
		neg = func(e Expr) *Unary {
			return &Unary{Op: OperatorNeg, Operand: e}
		}
	)

	tests := []struct {
		input string
		expr  Expr
	}{
		{input: `x`, expr: x},
		{input: `42`, expr: lit(42)},
		{input: `0.5`, expr: &Literal{Value: Float(0.5)}},
		{input: `x + 0`, expr: bin(OperatorAdd, x, lit(0))},
		{input: `x - y - z`, expr: bin(OperatorSub, bin(OperatorSub, x, y), z)},
		{input: `x / y / z`, expr: bin(OperatorDiv, bin(OperatorDiv, x, y), z)},
		{input: `x + y * z`, expr: bin(OperatorAdd, x, bin(OperatorMul, y, z))},
		{input: `(x + y) * z`, expr: bin(OperatorMul, bin(OperatorAdd, x, y), z)},
		{input: `x ** y ** z`, expr: bin(OperatorPow, x, bin(OperatorPow, y, z))},
		{input: `x ^ 2`, expr: bin(OperatorPow, x, lit(2))},
		{input: `-x ** 2`, expr: neg(bin(OperatorPow, x, lit(2)))},
		{input: `(-x) ** 2`, expr: bin(OperatorPow, neg(x), lit(2))},
		{input: `x ** -1`, expr: bin(OperatorPow, x, neg(lit(1)))},
		{input: `2 * -x`, expr: bin(OperatorMul, lit(2), neg(x))},
		{input: `--x`, expr: neg(neg(x))},
		{input: `+x`, expr: &Unary{Op: OperatorPos, Operand: x}},
		{input: `-x + 1`, expr: bin(OperatorAdd, neg(x), lit(1))},
		{input: `2*x**2 - 3*x + 1`, expr: bin(OperatorAdd,
			bin(OperatorSub,
				bin(OperatorMul, lit(2), bin(OperatorPow, x, lit(2))),
				bin(OperatorMul, lit(3), x),
			),
			lit(1),
		)},
		{input: `((x))`, expr: x},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Parse(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expr, e)
		})
	}
}

func TestParser_Expr_exactDecimals(t *testing.T) {
	p := NewParser(`x * 0.1`)
	p.ExactDecimals = true
	e, err := p.Expr()
	assert.NoError(t, err)

	b, ok := e.(*Binary)
	require.True(t, ok)
	l, ok := b.Right.(*Literal)
	require.True(t, ok)
	assert.IsType(t, Rational{}, l.Value)
	assert.Equal(t, `x*(1/10)`, e.String())
}

func TestParser_Expr_error(t *testing.T) {
	tests := []struct {
		input string
		err   error
		pos   int
	}{
		{input: ``, err: errUnexpectedEOS, pos: 0},
		{input: `x +`, err: errUnexpectedEOS, pos: 3},
		{input: `(x + 1`, err: errUnbalanced, pos: 6},
		{input: `x + 1)`, err: errUnbalanced, pos: 5},
		{input: `x y`, err: UnexpectedTokenError{Actual: Token{Kind: TokenIdent, Val: "y", Pos: 2}}, pos: 2},
		{input: `* x`, err: UnexpectedTokenError{Actual: Token{Kind: TokenGraphic, Val: "*", Pos: 0}}, pos: 0},
		{input: `x % 2`, err: UnexpectedRuneError{Rune: '%', Pos: 2}, pos: 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.input, se.Input)
			assert.Equal(t, tt.pos, se.Pos)
			assert.Equal(t, tt.err, se.Err)
		})
	}
}

func TestParser_Expr_tooDeep(t *testing.T) {
	input := strings.Repeat("(", maxDepth+1) + "x" + strings.Repeat(")", maxDepth+1)
	_, err := Parse(input)
	assert.True(t, errors.Is(err, errTooDeep))

	input = strings.Repeat("(", maxDepth/2) + "x" + strings.Repeat(")", maxDepth/2)
	e, err := Parse(input)
	assert.NoError(t, err)
	assert.Equal(t, Variable("x"), e)
}

func TestExpr_String(t *testing.T) {
	tests := []struct {
		input  string
		output string
	}{
		{input: `x+0`, output: `x + 0`},
		{input: `(x+y)*z`, output: `(x + y)*z`},
		{input: `x+(y*z)`, output: `x + y*z`},
		{input: `x-(y-z)`, output: `x - (y - z)`},
		{input: `(x-y)-z`, output: `x - y - z`},
		{input: `(x**y)**z`, output: `(x**y)**z`},
		{input: `x^y^z`, output: `x**y**z`},
		{input: `-(x**2)`, output: `-x**2`},
		{input: `(-x)**2`, output: `(-x)**2`},
		{input: `x**-1`, output: `x**-1`},
		{input: `1/2`, output: `1/2`},
		{input: `0.5*x`, output: `0.5*x`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.output, e.String())

			// Writing out and reading back yields the same tree.
			f, err := Parse(e.String())
			require.NoError(t, err)
			assert.Equal(t, e, f)
		})
	}
}

func TestLiteral_String(t *testing.T) {
	half, err := NewRational(1, 2)
	require.NoError(t, err)
	e := &Binary{Op: OperatorPow, Left: Variable("x"), Right: &Literal{Value: half}}
	assert.Equal(t, `x**(1/2)`, e.String())

	e = &Binary{Op: OperatorMul, Left: Variable("x"), Right: &Literal{Value: NewInteger(-3)}}
	assert.Equal(t, `x*-3`, e.String())

	e = &Binary{Op: OperatorPow, Left: &Literal{Value: NewInteger(-3)}, Right: Variable("x")}
	assert.Equal(t, `(-3)**x`, e.String())
}
