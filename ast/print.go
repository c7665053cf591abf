package ast

import (
	"fmt"
	"strings"
)

// The String methods render nodes as s-expressions. The format is
// deterministic and used both by the -ast flag and by the golden
// tests.

func (n *NumberLit) String() string {
	return n.Tok.Lexeme
}

func (n *Ident) String() string {
	return n.Name
}

func (n *Binary) String() string {
	return fmt.Sprintf("(%s %v %v)", n.Op.Lexeme, n.X, n.Y)
}

func (n *Unary) String() string {
	return fmt.Sprintf("(%s %v)", n.Op.Lexeme, n.X)
}

func (n *Call) String() string {
	buf := &strings.Builder{}
	fmt.Fprintf(buf, "(call %s", n.Callee)
	for _, arg := range n.Args {
		fmt.Fprintf(buf, " %v", arg)
	}
	buf.WriteString(")")
	return buf.String()
}

func (n *Assign) String() string {
	return fmt.Sprintf("(= %s %v)", n.Target, n.Value)
}

func (n *VarDecl) String() string {
	if n.Init != nil {
		return fmt.Sprintf("(var %s %s %v)", n.Type.Lexeme, n.Name, n.Init)
	}
	return fmt.Sprintf("(var %s %s)", n.Type.Lexeme, n.Name)
}

func (n *ExprStmt) String() string {
	return n.X.String()
}

func (n *Return) String() string {
	if n.X != nil {
		return fmt.Sprintf("(return %v)", n.X)
	}
	return "(return)"
}

func (n *If) String() string {
	if n.Else != nil {
		return fmt.Sprintf("(if %v %v %v)", n.Cond, n.Then, n.Else)
	}
	return fmt.Sprintf("(if %v %v)", n.Cond, n.Then)
}

func (n *While) String() string {
	return fmt.Sprintf("(while %v %v)", n.Cond, n.Body)
}

func (n *Block) String() string {
	buf := &strings.Builder{}
	buf.WriteString("(block")
	for _, stmt := range n.Stmts {
		fmt.Fprintf(buf, " %v", stmt)
	}
	buf.WriteString(")")
	return buf.String()
}

func (p Param) String() string {
	return fmt.Sprintf("(%s %s)", p.Type.Lexeme, p.Name)
}

func params(ps []Param) string {
	buf := &strings.Builder{}
	buf.WriteString("(params")
	for _, p := range ps {
		fmt.Fprintf(buf, " %v", p)
	}
	buf.WriteString(")")
	return buf.String()
}

func (n *FuncDecl) String() string {
	return fmt.Sprintf("(func %s %s %s %v)", n.RetType.Lexeme, n.Name, params(n.Params), n.Body)
}

func (n *ExternDecl) String() string {
	return fmt.Sprintf("(extern %s %s %s)", n.RetType.Lexeme, n.Name, params(n.Params))
}

func (p *Program) String() string {
	buf := &strings.Builder{}
	for _, extern := range p.Externs {
		fmt.Fprintln(buf, extern)
	}
	for _, f := range p.Funcs {
		fmt.Fprintln(buf, f)
	}
	return buf.String()
}
