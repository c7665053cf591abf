// Package lower lowers Cee source code in AST-form to LLVM IR assembly.
package lower

import (
	"github.com/llir/llvm/ir"
)

// Lower lowers the Cee program to LLVM IR. Errors encountered during
// lowering are reported to the error handler of the generator; when any
// error has been reported the returned module must be discarded.
func (gen *Generator) Lower() *ir.Module {
	// Index global identifiers and create scaffolding function
	// declarations, so that call sites resolve regardless of declaration
	// order and a failed function body never disturbs the emission of
	// later functions.
	gen.indexProgram()
	// Lower function definitions in source order.
	for _, f := range gen.prog.Funcs {
		gen.lowerFuncDecl(f)
	}
	return gen.m
}
