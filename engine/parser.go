package engine

import (
	"errors"
	"fmt"
	"math/big"
)

const maxPriority = 1200

// maxDepth limits nesting so that a hostile expression can't exhaust the stack.
const maxDepth = 1000

var (
	errNoOp           = errors.New("no op")
	errUnbalanced     = errors.New("unbalanced parenthesis")
	errTooDeep        = errors.New("too deeply nested")
	errUnexpectedEOS  = errors.New("unexpected end of expression")
	errInvalidInteger = errors.New("invalid integer")
)

// UnexpectedTokenError is an error that the parser encountered a token which doesn't fit in the grammar.
type UnexpectedTokenError struct {
	Actual Token
}

func (e UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected token: %s", e.Actual)
}

type operatorSpecifier uint8

const (
	operatorSpecifierFY operatorSpecifier = iota
	operatorSpecifierXFX
	operatorSpecifierXFY
	operatorSpecifierYFX
)

type operator struct {
	priority  int // 1 ~ 1200
	specifier operatorSpecifier
	op        Operator
}

// Pratt parser's binding powers in operator priority: the lower, the tighter.
func (o operator) bindingPriorities() (int, int) {
	const max = maxPriority + 2
	type lr struct {
		left, right int
	}
	p := [...]lr{
		operatorSpecifierFY:  {max, o.priority},
		operatorSpecifierXFX: {o.priority - 1, o.priority - 1},
		operatorSpecifierXFY: {o.priority - 1, o.priority},
		operatorSpecifierYFX: {o.priority, o.priority - 1},
	}[o.specifier]
	return p.left, p.right
}

// ** binds tighter than a prefix - on its left but accepts a prefix - on its right: -x**2 is -(x**2) and x**-1 is x**(-1).
var (
	prefixOperators = map[string]operator{
		"-": {priority: 200, specifier: operatorSpecifierFY, op: OperatorNeg},
		"+": {priority: 200, specifier: operatorSpecifierFY, op: OperatorPos},
	}
	infixOperators = map[string]operator{
		"+":  {priority: 500, specifier: operatorSpecifierYFX, op: OperatorAdd},
		"-":  {priority: 500, specifier: operatorSpecifierYFX, op: OperatorSub},
		"*":  {priority: 400, specifier: operatorSpecifierYFX, op: OperatorMul},
		"/":  {priority: 400, specifier: operatorSpecifierYFX, op: OperatorDiv},
		"**": {priority: 200, specifier: operatorSpecifierXFY, op: OperatorPow},
		"^":  {priority: 200, specifier: operatorSpecifierXFY, op: OperatorPow},
	}
)

// Parser turns an expression into Expr.
type Parser struct {
	// ExactDecimals makes decimal literals exact Rationals instead of Floats.
	ExactDecimals bool

	input  string
	lexer  *Lexer
	tokens []Token
	pos    int
	depth  int
}

// NewParser creates a new parser for the expression.
func NewParser(input string) *Parser {
	return &Parser{
		input: input,
		lexer: NewLexer(input),
	}
}

// Parse parses an expression with decimal literals as Floats.
func Parse(input string) (Expr, error) {
	return NewParser(input).Expr()
}

// Expr parses the whole input as an expression.
func (p *Parser) Expr() (Expr, error) {
	e, err := p.expr()
	if err != nil {
		return nil, p.syntaxError(err)
	}
	return e, nil
}

func (p *Parser) expr() (Expr, error) {
	ts, err := p.lexer.Tokens()
	if err != nil {
		return nil, err
	}
	p.tokens, p.pos = ts, 0

	e, err := p.term(maxPriority)
	if err != nil {
		return nil, err
	}

	switch t := p.next(); t.Kind {
	case TokenEOS:
		return e, nil
	case TokenParenR:
		return nil, errUnbalanced
	default:
		return nil, UnexpectedTokenError{Actual: t}
	}
}

func (p *Parser) syntaxError(err error) error {
	pos := p.current().Pos
	var (
		ure UnexpectedRuneError
		ute UnexpectedTokenError
	)
	switch {
	case errors.As(err, &ure):
		pos = ure.Pos
	case errors.As(err, &ute):
		pos = ute.Actual.Pos
	}
	return &SyntaxError{Input: p.input, Pos: pos, Err: err}
}

// next returns the next token. Once it reaches the end, it keeps returning TokenEOS.
func (p *Parser) next() Token {
	t := p.tokens[len(p.tokens)-1]
	if p.pos < len(p.tokens) {
		t = p.tokens[p.pos]
	}
	p.pos++
	return t
}

func (p *Parser) backup() {
	p.pos--
}

// current returns the last token returned by next.
func (p *Parser) current() Token {
	switch {
	case len(p.tokens) == 0:
		return Token{Kind: TokenEOS}
	case p.pos <= 0:
		return p.tokens[0]
	case p.pos > len(p.tokens):
		return p.tokens[len(p.tokens)-1]
	default:
		return p.tokens[p.pos-1]
	}
}

// Loosely based on Pratt parser explained in this article: https://matklad.github.io/2020/04/13/simple-but-powerful-pratt-parsing.html
func (p *Parser) term(max int) (Expr, error) {
	p.depth++
	defer func() {
		p.depth--
	}()
	if p.depth > maxDepth {
		return nil, errTooDeep
	}

	var lhs Expr
	switch op, err := p.prefix(max); err {
	case nil:
		_, rbp := op.bindingPriorities()
		t, err := p.term(rbp)
		if err != nil {
			return nil, err
		}
		lhs = &Unary{Op: op.op, Operand: t}
	default:
		lhs, err = p.term0()
		if err != nil {
			return nil, err
		}
	}

	for {
		op, err := p.infix(max)
		if err != nil {
			break
		}
		_, rbp := op.bindingPriorities()
		rhs, err := p.term(rbp)
		if err != nil {
			return nil, err
		}
		lhs = &Binary{Op: op.op, Left: lhs, Right: rhs}
	}

	return lhs, nil
}

func (p *Parser) prefix(max int) (operator, error) {
	t := p.next()
	if t.Kind == TokenGraphic {
		if op, ok := prefixOperators[t.Val]; ok && op.priority <= max {
			return op, nil
		}
	}
	p.backup()
	return operator{}, errNoOp
}

func (p *Parser) infix(max int) (operator, error) {
	t := p.next()
	if t.Kind == TokenGraphic {
		if op, ok := infixOperators[t.Val]; ok {
			if l, _ := op.bindingPriorities(); l <= max {
				return op, nil
			}
		}
	}
	p.backup()
	return operator{}, errNoOp
}

func (p *Parser) term0() (Expr, error) {
	switch t := p.next(); t.Kind {
	case TokenInteger:
		i, ok := new(big.Int).SetString(t.Val, 10)
		if !ok {
			return nil, errInvalidInteger
		}
		return &Literal{Value: Integer{i: i}}, nil
	case TokenDecimal:
		n, err := decimal(t.Val, p.ExactDecimals)
		if err != nil {
			return nil, err
		}
		return &Literal{Value: n}, nil
	case TokenIdent:
		return Variable(t.Val), nil
	case TokenParenL:
		e, err := p.term(maxPriority)
		if err != nil {
			return nil, err
		}
		if t := p.next(); t.Kind != TokenParenR {
			return nil, errUnbalanced
		}
		return e, nil
	case TokenEOS:
		return nil, errUnexpectedEOS
	default:
		return nil, UnexpectedTokenError{Actual: t}
	}
}
