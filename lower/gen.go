package lower

import (
	"github.com/llir/llvm/ir"

	"github.com/mewspring/cee/ast"
)

// Generator keeps track of top-level entities when translating from Cee
// AST to LLVM IR representation. A generator drives one compilation;
// generators are not shared between compilations.
type Generator struct {
	// Error handler used to report errors encountered during compilation.
	eh func(error)
	// Cee program being compiled.
	prog *ast.Program
	// LLVM IR module being generated.
	m *ir.Module

	// Index of IR top-level entities.

	// funcs maps from global identifier (without '@' prefix) to function
	// declarations and definitions.
	funcs map[string]*ir.Func
}

// NewGenerator returns a new generator for lowering the Cee program to
// LLVM IR assembly. The error handler eh is invoked when an error is
// encountered during compilation.
func NewGenerator(eh func(error), prog *ast.Program) *Generator {
	gen := &Generator{
		eh:    eh,
		prog:  prog,
		m:     ir.NewModule(),
		funcs: make(map[string]*ir.Func),
	}
	return gen
}
