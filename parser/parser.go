// Package parser builds Cee syntax trees by recursive descent with
// precedence climbing for binary expressions.
package parser

import (
	"fmt"

	"github.com/mewspring/cee/ast"
	"github.com/mewspring/cee/lexer"
	"github.com/mewspring/cee/token"
)

// Error is a grammar violation at a source position. The parser fails
// fast: the first unrecoverable violation aborts the parse.
type Error struct {
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parser consumes tokens from a lexer and produces a Program. The
// lexer is owned by the parser for the duration of the parse; there is
// no shared lexer state between parsers.
type Parser struct {
	l   *lexer.Lexer
	tok token.Token // current token, one-token lookahead
}

// New returns a parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

// Parse parses the source text given to New as a whole program.
func Parse(source string) (*ast.Program, error) {
	return New(lexer.New(source)).ParseProgram()
}

// next advances to the next token, surfacing lexical errors.
func (p *Parser) next() error {
	tok, err := p.l.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// expect consumes the current token iff it has the wanted kind.
func (p *Parser) expect(kind token.Kind) error {
	if p.tok.Kind != kind {
		return p.errorf("expected %v, found %v", kind, p.tok.Kind)
	}
	return p.next()
}

// errorf returns a parse error at the current token.
func (p *Parser) errorf(format string, args ...interface{}) error {
	return &Error{
		Line: p.tok.Line,
		Col:  p.tok.Col,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// === [ Declarations ] ========================================================

// ParseProgram parses
//
//	program := (functionDecl | externDecl)*
func (p *Parser) ParseProgram() (*ast.Program, error) {
	// Prime the lookahead.
	if err := p.next(); err != nil {
		return nil, err
	}
	prog := &ast.Program{}
	for p.tok.Kind != token.EOF {
		switch {
		case p.tok.Kind == token.KwExtern:
			extern, err := p.parseExtern()
			if err != nil {
				return nil, err
			}
			prog.Externs = append(prog.Externs, extern)
		case p.tok.Kind.IsType():
			f, err := p.parseFunc()
			if err != nil {
				return nil, err
			}
			prog.Funcs = append(prog.Funcs, f)
		default:
			return nil, p.errorf("expected function or extern declaration, found %v", p.tok.Kind)
		}
	}
	return prog, nil
}

// parseFunc parses
//
//	functionDecl := type IDENT '(' paramList? ')' block
func (p *Parser) parseFunc() (*ast.FuncDecl, error) {
	retType := p.tok
	if err := p.next(); err != nil {
		return nil, err
	}
	name := p.tok
	if err := p.expect(token.Ident); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != token.LBrace {
		return nil, p.errorf("expected function body, found %v", p.tok.Kind)
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{
		RetType: retType,
		Tok:     name,
		Name:    name.Lexeme,
		Params:  params,
		Body:    body,
	}, nil
}

// parseExtern parses
//
//	externDecl := 'extern' type IDENT '(' paramList? ')' ';'
func (p *Parser) parseExtern() (*ast.ExternDecl, error) {
	if err := p.next(); err != nil { // eat 'extern'
		return nil, err
	}
	if !p.tok.Kind.IsType() {
		return nil, p.errorf("expected return type, found %v", p.tok.Kind)
	}
	retType := p.tok
	if err := p.next(); err != nil {
		return nil, err
	}
	name := p.tok
	if err := p.expect(token.Ident); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExternDecl{
		RetType: retType,
		Tok:     name,
		Name:    name.Lexeme,
		Params:  params,
	}, nil
}

// parseParams parses a parenthesized, comma-separated parameter list.
//
//	paramList := type IDENT (',' type IDENT)*
func (p *Parser) parseParams() ([]ast.Param, error) {
	if err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	for p.tok.Kind != token.RParen {
		if len(params) > 0 {
			if err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		if !p.tok.Kind.IsType() {
			return nil, p.errorf("expected parameter type, found %v", p.tok.Kind)
		}
		typ := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		name := p.tok
		if err := p.expect(token.Ident); err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Type: typ, Name: name.Lexeme})
	}
	if err := p.next(); err != nil { // eat ')'
		return nil, err
	}
	return params, nil
}

// === [ Statements ] ==========================================================

// parseStmt dispatches on the leading token.
//
//	statement := varDecl | ifStmt | whileStmt | returnStmt | block | exprStmt
func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.tok.Kind.IsType():
		return p.parseVarDecl()
	case p.tok.Kind == token.KwIf:
		return p.parseIf()
	case p.tok.Kind == token.KwWhile:
		return p.parseWhile()
	case p.tok.Kind == token.KwReturn:
		return p.parseReturn()
	case p.tok.Kind == token.LBrace:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

// parseVarDecl parses
//
//	varDecl := type IDENT ('=' expr)? ';'
func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	typ := p.tok
	if err := p.next(); err != nil {
		return nil, err
	}
	name := p.tok
	if err := p.expect(token.Ident); err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Type: typ, Tok: name, Name: name.Lexeme}
	if p.tok.Kind == token.Assign {
		if err := p.next(); err != nil {
			return nil, err
		}
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseIf parses
//
//	ifStmt := 'if' '(' expr ')' statement ('else' statement)?
func (p *Parser) parseIf() (*ast.If, error) {
	if err := p.next(); err != nil { // eat 'if'
		return nil, err
	}
	if err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Cond: cond, Then: then}
	if p.tok.Kind == token.KwElse {
		if err := p.next(); err != nil {
			return nil, err
		}
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	return stmt, nil
}

// parseWhile parses
//
//	whileStmt := 'while' '(' expr ')' statement
func (p *Parser) parseWhile() (*ast.While, error) {
	if err := p.next(); err != nil { // eat 'while'
		return nil, err
	}
	if err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

// parseReturn parses
//
//	returnStmt := 'return' expr? ';'
func (p *Parser) parseReturn() (*ast.Return, error) {
	ret := &ast.Return{Tok: p.tok}
	if err := p.next(); err != nil { // eat 'return'
		return nil, err
	}
	if p.tok.Kind != token.Semicolon {
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ret.X = x
	}
	if err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return ret, nil
}

// parseBlock parses
//
//	block := '{' statement* '}'
//
// Reaching end of input before the closing brace is a parse error.
func (p *Parser) parseBlock() (*ast.Block, error) {
	if err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	block := &ast.Block{}
	for p.tok.Kind != token.RBrace {
		if p.tok.Kind == token.EOF {
			return nil, p.errorf("unterminated block")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	if err := p.next(); err != nil { // eat '}'
		return nil, err
	}
	return block, nil
}

// parseExprStmt parses an expression evaluated for effect.
func (p *Parser) parseExprStmt() (*ast.ExprStmt, error) {
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: x}, nil
}

// === [ Expressions ] =========================================================

// parseExpr parses
//
//	expr       := assignment
//	assignment := IDENT '=' assignment | equality
func (p *Parser) parseExpr() (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	lhs, err = p.parseBinaryRHS(1, lhs)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != token.Assign {
		return lhs, nil
	}
	// Assignment is right-associative and only valid with a plain
	// variable on the left.
	target, ok := lhs.(*ast.Ident)
	if !ok {
		return nil, p.errorf("invalid assignment target")
	}
	if err := p.next(); err != nil { // eat '='
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Tok: target.Tok, Target: target.Name, Value: value}, nil
}

// parseBinaryRHS climbs the operator precedence ladder. The loop
// consumes operators binding at least as tight as minPrec and recurses
// one level deeper only when the following operator binds tighter,
// which yields left-associativity for equal-precedence chains.
func (p *Parser) parseBinaryRHS(minPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		prec := p.tok.Kind.Precedence()
		if prec < minPrec || prec == 0 {
			return lhs, nil
		}
		op := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if next := p.tok.Kind.Precedence(); next > prec {
			rhs, err = p.parseBinaryRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}
		lhs = &ast.Binary{Op: op, X: lhs, Y: rhs}
	}
}

// parseUnary parses prefix operators, which bind tighter than any
// binary operator.
func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.tok.Kind {
	case token.Sub, token.Not:
		op := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, X: x}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses
//
//	primary := NUMBER | IDENT | IDENT '(' argList? ')' | '(' expr ')'
func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.tok.Kind {
	case token.Number:
		lit := &ast.NumberLit{Tok: p.tok}
		if err := p.next(); err != nil {
			return nil, err
		}
		return lit, nil
	case token.Ident:
		name := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.Kind != token.LParen {
			return &ast.Ident{Tok: name, Name: name.Lexeme}, nil
		}
		return p.parseCall(name)
	case token.LParen:
		if err := p.next(); err != nil { // eat '('
			return nil, err
		}
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return x, nil
	default:
		return nil, p.errorf("expected expression, found %v", p.tok.Kind)
	}
}

// parseCall parses the argument list of a call to name. The leading
// identifier and the current '(' have already been consumed by
// parsePrimary.
func (p *Parser) parseCall(name token.Token) (*ast.Call, error) {
	if err := p.next(); err != nil { // eat '('
		return nil, err
	}
	call := &ast.Call{Tok: name, Callee: name.Lexeme}
	for p.tok.Kind != token.RParen {
		if len(call.Args) > 0 {
			if err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	if err := p.next(); err != nil { // eat ')'
		return nil, err
	}
	return call, nil
}
