package engine

import (
	"fmt"
	"strings"
	"unicode"
)

// Lexer turns an expression into tokens.
type Lexer struct {
	input  []rune
	pos    int
	start  int
	tokens []Token
}

// NewLexer creates a lexer with an input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	state := l.init
	for state != nil && len(l.tokens) == 0 {
		var err error
		state, err = state(l.next())
		if err != nil {
			return Token{}, err
		}
	}

	var t Token
	t, l.tokens = l.tokens[0], l.tokens[1:]
	return t, nil
}

// Tokens returns all the tokens up to and including TokenEOS.
func (l *Lexer) Tokens() ([]Token, error) {
	var ts []Token
	for {
		t, err := l.Next()
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
		if t.Kind == TokenEOS {
			return ts, nil
		}
	}
}

const etx = 0x2

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.pos++
		return etx
	}
	r := l.input[l.pos]
	l.pos++
	return r
}

func (l *Lexer) backup() {
	l.pos--
}

func (l *Lexer) emit(kind TokenKind, val string) {
	l.tokens = append(l.tokens, Token{Kind: kind, Val: val, Pos: l.start})
}

// Token is a smallest meaningful unit of an expression.
type Token struct {
	Kind TokenKind
	Val  string
	Pos  int
}

func (t Token) String() string {
	return fmt.Sprintf("<%s %s>", t.Kind, t.Val)
}

// TokenKind is a type of Token.
type TokenKind byte

const (
	// TokenEOS represents an end of token stream.
	TokenEOS TokenKind = iota

	// TokenInteger represents an integer token.
	TokenInteger

	// TokenDecimal represents a decimal token such as 0.5 or 1e-3.
	TokenDecimal

	// TokenIdent represents an identifier token.
	TokenIdent

	// TokenGraphic represents an operator token.
	TokenGraphic

	// TokenParenL represents an open parenthesis.
	TokenParenL

	// TokenParenR represents a close parenthesis.
	TokenParenR

	tokenKindLen
)

func (k TokenKind) String() string {
	return [tokenKindLen]string{
		TokenEOS:     "eos",
		TokenInteger: "integer",
		TokenDecimal: "decimal",
		TokenIdent:   "ident",
		TokenGraphic: "graphic",
		TokenParenL:  "paren L",
		TokenParenR:  "paren R",
	}[k]
}

// UnexpectedRuneError is an error that the lexer encountered a rune which isn't a part of the grammar.
type UnexpectedRuneError struct {
	Rune rune
	Pos  int
}

func (e UnexpectedRuneError) Error() string {
	return fmt.Sprintf("unexpected rune: %q(%d) at %d", e.Rune, e.Rune, e.Pos)
}

type lexState func(rune) (lexState, error)

func (l *Lexer) init(r rune) (lexState, error) {
	l.start = l.pos - 1
	switch {
	case r == etx:
		l.backup()
		l.emit(TokenEOS, "")
		return nil, nil
	case unicode.IsSpace(r):
		return l.init, nil
	case r == '(':
		l.emit(TokenParenL, string(r))
		return nil, nil
	case r == ')':
		l.emit(TokenParenR, string(r))
		return nil, nil
	case r == '*':
		var b strings.Builder
		_, _ = b.WriteRune(r)
		return l.asterisk(&b), nil
	case strings.ContainsRune("+-/^", r):
		l.emit(TokenGraphic, string(r))
		return nil, nil
	case isDigit(r):
		var b strings.Builder
		_, _ = b.WriteRune(r)
		return l.integer(&b), nil
	case r == '.':
		var b strings.Builder
		_, _ = b.WriteRune(r)
		return l.fractionFirst(&b), nil
	case unicode.IsLetter(r), r == '_':
		var b strings.Builder
		_, _ = b.WriteRune(r)
		return l.ident(&b), nil
	default:
		return nil, UnexpectedRuneError{Rune: r, Pos: l.start}
	}
}

func (l *Lexer) asterisk(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		if r == '*' {
			_, _ = b.WriteRune(r)
		} else {
			l.backup()
		}
		l.emit(TokenGraphic, b.String())
		return nil, nil
	}
}

func (l *Lexer) ident(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case unicode.IsLetter(r), isDigit(r), r == '_':
			_, _ = b.WriteRune(r)
			return l.ident(b), nil
		default:
			l.backup()
			l.emit(TokenIdent, b.String())
			return nil, nil
		}
	}
}

func (l *Lexer) integer(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case isDigit(r):
			_, _ = b.WriteRune(r)
			return l.integer(b), nil
		case r == '.':
			_, _ = b.WriteRune(r)
			return l.fraction(b), nil
		case r == 'e', r == 'E':
			return l.exponentMark(b, r), nil
		default:
			return l.endNumber(r, TokenInteger, b.String())
		}
	}
}

// fractionFirst requires a digit after a leading period as in .5.
func (l *Lexer) fractionFirst(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		if !isDigit(r) {
			l.backup()
			return nil, UnexpectedRuneError{Rune: '.', Pos: l.start}
		}
		_, _ = b.WriteRune(r)
		return l.fraction(b), nil
	}
}

func (l *Lexer) fraction(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case isDigit(r):
			_, _ = b.WriteRune(r)
			return l.fraction(b), nil
		case r == 'e', r == 'E':
			return l.exponentMark(b, r), nil
		default:
			return l.endNumber(r, TokenDecimal, b.String())
		}
	}
}

// exponentMark decides if e/E starts an exponent. If it doesn't, e/E is a letter stuck to the number.
func (l *Lexer) exponentMark(b *strings.Builder, mark rune) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case isDigit(r):
			_, _ = b.WriteRune(mark)
			_, _ = b.WriteRune(r)
			return l.exponent(b), nil
		case r == '+', r == '-':
			if d := l.next(); isDigit(d) {
				_, _ = b.WriteRune(mark)
				_, _ = b.WriteRune(r)
				_, _ = b.WriteRune(d)
				return l.exponent(b), nil
			}
			l.backup()
		}
		return nil, UnexpectedRuneError{Rune: mark, Pos: l.pos - 2}
	}
}

func (l *Lexer) exponent(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		if isDigit(r) {
			_, _ = b.WriteRune(r)
			return l.exponent(b), nil
		}
		return l.endNumber(r, TokenDecimal, b.String())
	}
}

// endNumber emits the number read so far. A number can't be followed by a letter, as in 2x or 0x.
func (l *Lexer) endNumber(r rune, kind TokenKind, val string) (lexState, error) {
	if unicode.IsLetter(r) || r == '_' {
		return nil, UnexpectedRuneError{Rune: r, Pos: l.pos - 1}
	}
	l.backup()
	l.emit(kind, val)
	return nil, nil
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
