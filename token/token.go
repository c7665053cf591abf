// Package token defines the lexical tokens of the Cee language.
package token

import "fmt"

// Kind is the set of lexical token kinds.
type Kind int

const (
	// EOF is returned indefinitely once the input is exhausted.
	EOF Kind = iota

	// Literals and identifiers.
	Ident  // foo
	Number // 42, 3.14

	// Keywords.
	KwInt    // int
	KwDouble // double
	KwBool   // bool
	KwVoid   // void
	KwIf     // if
	KwElse   // else
	KwWhile  // while
	KwReturn // return
	KwExtern // extern

	// Operators.
	Assign // =
	Eq     // ==
	Neq    // !=
	Lt     // <
	Gt     // >
	Leq    // <=
	Geq    // >=
	Add    // +
	Sub    // -
	Mul    // *
	Div    // /
	Not    // !

	// Punctuation.
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Semicolon // ;
)

var kindNames = [...]string{
	EOF:       "EOF",
	Ident:     "Ident",
	Number:    "Number",
	KwInt:     "int",
	KwDouble:  "double",
	KwBool:    "bool",
	KwVoid:    "void",
	KwIf:      "if",
	KwElse:    "else",
	KwWhile:   "while",
	KwReturn:  "return",
	KwExtern:  "extern",
	Assign:    "=",
	Eq:        "==",
	Neq:       "!=",
	Lt:        "<",
	Gt:        ">",
	Leq:       "<=",
	Geq:       ">=",
	Add:       "+",
	Sub:       "-",
	Mul:       "*",
	Div:       "/",
	Not:       "!",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	Comma:     ",",
	Semicolon: ";",
}

func (k Kind) String() string {
	if 0 <= int(k) && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps keyword lexemes to their token kinds. The lexer scans a
// full identifier first and consults this table after (maximal munch).
var Keywords = map[string]Kind{
	"int":    KwInt,
	"double": KwDouble,
	"bool":   KwBool,
	"void":   KwVoid,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"return": KwReturn,
	"extern": KwExtern,
}

// Token is a single lexical token. Tokens are immutable and produced
// one at a time by the lexer.
type Token struct {
	Kind   Kind
	Lexeme string
	// Val holds the numeric value of a Number token.
	Val float64
	// IsFloat reports whether a Number token carries a decimal point.
	IsFloat bool
	Line    int
	Col     int
}

func (tok Token) String() string {
	switch tok.Kind {
	case Ident:
		return fmt.Sprintf("%d:%d Ident %q", tok.Line, tok.Col, tok.Lexeme)
	case Number:
		return fmt.Sprintf("%d:%d Number %v", tok.Line, tok.Col, tok.Lexeme)
	default:
		return fmt.Sprintf("%d:%d %v", tok.Line, tok.Col, tok.Kind)
	}
}

// IsType reports whether the token kind starts a type name.
func (k Kind) IsType() bool {
	switch k {
	case KwInt, KwDouble, KwBool, KwVoid:
		return true
	}
	return false
}

// Precedence of binary operators, higher binds tighter. Zero means the
// kind is not a binary operator. Assignment is right-associative and
// handled outside the climb; the climb starts at equality.
func (k Kind) Precedence() int {
	switch k {
	case Eq, Neq:
		return 10
	case Lt, Gt, Leq, Geq:
		return 20
	case Add, Sub:
		return 30
	case Mul, Div:
		return 40
	}
	return 0
}
