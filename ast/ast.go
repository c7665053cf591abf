// Package ast declares the syntax tree of the Cee language.
//
// The tree is single-owner: every node is referenced by exactly one
// parent and subtrees are never shared. Nodes are created by the
// parser and become garbage together with the Program root.
package ast

import (
	"fmt"

	"github.com/mewspring/cee/token"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	fmt.Stringer
}

// Expr is the closed set of expression nodes.
type Expr interface {
	Node
	isExpr()
}

// Stmt is the closed set of statement nodes.
type Stmt interface {
	Node
	isStmt()
}

// === [ Expressions ] =========================================================

// NumberLit is an integer or floating literal.
type NumberLit struct {
	Tok token.Token
}

// Ident is a variable reference.
type Ident struct {
	Tok  token.Token
	Name string
}

// Binary is a binary operator expression.
type Binary struct {
	Op   token.Token
	X, Y Expr
}

// Unary is a prefix operator expression (- or !).
type Unary struct {
	Op token.Token
	X  Expr
}

// Call is a function call.
type Call struct {
	Tok    token.Token // callee identifier
	Callee string
	Args   []Expr
}

// Assign assigns Value to the variable named Target.
type Assign struct {
	Tok    token.Token // target identifier
	Target string
	Value  Expr
}

func (*NumberLit) isExpr() {}
func (*Ident) isExpr()     {}
func (*Binary) isExpr()    {}
func (*Unary) isExpr()     {}
func (*Call) isExpr()      {}
func (*Assign) isExpr()    {}

// === [ Statements ] ==========================================================

// VarDecl declares a local variable with an optional initializer.
type VarDecl struct {
	Type token.Token // type keyword
	Tok  token.Token // name identifier
	Name string
	Init Expr // or nil
}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	X Expr
}

// Return returns from the enclosing function, with an optional value.
type Return struct {
	Tok token.Token
	X   Expr // or nil
}

// If is a conditional with an optional else branch.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt // or nil
}

// While is a pre-test loop.
type While struct {
	Cond Expr
	Body Stmt
}

// Block is a brace-delimited statement sequence introducing a scope.
type Block struct {
	Stmts []Stmt
}

func (*VarDecl) isStmt()  {}
func (*ExprStmt) isStmt() {}
func (*Return) isStmt()   {}
func (*If) isStmt()       {}
func (*While) isStmt()    {}
func (*Block) isStmt()    {}

// === [ Top level ] ===========================================================

// Param is a typed function parameter.
type Param struct {
	Type token.Token
	Name string
}

// FuncDecl is a function definition.
type FuncDecl struct {
	RetType token.Token
	Tok     token.Token // name identifier
	Name    string
	Params  []Param
	Body    *Block
}

// ExternDecl declares an external function by prototype.
type ExternDecl struct {
	RetType token.Token
	Tok     token.Token // name identifier
	Name    string
	Params  []Param
}

// Program is the root of the tree: function definitions and extern
// declarations in source order.
type Program struct {
	Externs []*ExternDecl
	Funcs   []*FuncDecl
}
