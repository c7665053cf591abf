// Package lexer turns Cee source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strconv"

	"github.com/mewspring/cee/token"
)

// Lexer is a streaming tokenizer over a single source text. Each call
// to Next produces exactly one token; once the input is exhausted Next
// returns EOF tokens indefinitely.
type Lexer struct {
	source string
	// start of current lexeme.
	start int
	// current position in source.
	current int
	line    int
	col     int
	// line/col at start of current lexeme.
	startLine int
	startCol  int
}

// New returns a lexer over the given source text.
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		line:   1,
		col:    1,
	}
}

// Error is a lexical error at a source position.
//
// Unknown characters are reported through Error, never silently
// skipped; the lexer advances past the offending character, so a
// caller that chooses to may keep scanning after reporting.
type Error struct {
	Line int
	Col  int
	Char byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: unexpected character %q", e.Line, e.Col, e.Char)
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) advance() byte {
	c := l.source[l.current]
	l.current++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

// match consumes the next character iff it equals want.
func (l *Lexer) match(want byte) bool {
	if l.peek() != want {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) make(kind token.Kind) token.Token {
	return token.Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.current],
		Line:   l.startLine,
		Col:    l.startCol,
	}
}

// Next scans and returns the next token. Whitespace and comments are
// skipped and never surface as tokens.
func (l *Lexer) Next() (token.Token, error) {
	l.skipTrivia()
	l.start = l.current
	l.startLine = l.line
	l.startCol = l.col
	if l.isAtEnd() {
		return token.Token{Kind: token.EOF, Line: l.line, Col: l.col}, nil
	}
	c := l.advance()
	switch {
	case isDigit(c):
		return l.number()
	case isAlpha(c):
		return l.identifier(), nil
	}
	switch c {
	case '(':
		return l.make(token.LParen), nil
	case ')':
		return l.make(token.RParen), nil
	case '{':
		return l.make(token.LBrace), nil
	case '}':
		return l.make(token.RBrace), nil
	case ',':
		return l.make(token.Comma), nil
	case ';':
		return l.make(token.Semicolon), nil
	case '+':
		return l.make(token.Add), nil
	case '-':
		return l.make(token.Sub), nil
	case '*':
		return l.make(token.Mul), nil
	case '/':
		return l.make(token.Div), nil
	// Two-character operators are matched greedily before the
	// one-character form.
	case '=':
		if l.match('=') {
			return l.make(token.Eq), nil
		}
		return l.make(token.Assign), nil
	case '!':
		if l.match('=') {
			return l.make(token.Neq), nil
		}
		return l.make(token.Not), nil
	case '<':
		if l.match('=') {
			return l.make(token.Leq), nil
		}
		return l.make(token.Lt), nil
	case '>':
		if l.match('=') {
			return l.make(token.Geq), nil
		}
		return l.make(token.Gt), nil
	}
	return token.Token{}, &Error{Line: l.startLine, Col: l.startCol, Char: c}
}

// skipTrivia skips whitespace, line comments and block comments.
func (l *Lexer) skipTrivia() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			switch l.peekNext() {
			case '/':
				for !l.isAtEnd() && l.peek() != '\n' {
					l.advance()
				}
			case '*':
				l.advance() // /
				l.advance() // *
				for !l.isAtEnd() {
					if l.peek() == '*' && l.peekNext() == '/' {
						l.advance()
						l.advance()
						break
					}
					l.advance()
				}
			default:
				return
			}
		default:
			return
		}
	}
}

// number scans an integer or floating literal. A second decimal point
// ends the number early.
func (l *Lexer) number() (token.Token, error) {
	for isDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekNext()) {
		isFloat = true
		l.advance() // .
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	tok := l.make(token.Number)
	val, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		// Digits with at most one decimal point always parse.
		panic(fmt.Errorf("unable to parse numeric literal %q; %v", tok.Lexeme, err))
	}
	tok.Val = val
	tok.IsFloat = isFloat
	return tok, nil
}

// identifier scans an identifier and reclassifies keywords.
func (l *Lexer) identifier() token.Token {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	tok := l.make(token.Ident)
	if kind, ok := token.Keywords[tok.Lexeme]; ok {
		tok.Kind = kind
	}
	return tok
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlpha(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}
