package lower

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"github.com/mewspring/cee/ast"
)

// lowerFuncDecl lowers the body of the Cee function definition,
// emitting to the scaffolding IR function created by the index pass.
// Lowering fails fast; the first error aborts emission of this function
// and is reported to the error handler of the generator. A failed body
// leaves the function declarations of the module intact, so emission of
// subsequent functions is unaffected.
func (gen *Generator) lowerFuncDecl(old *ast.FuncDecl) {
	f, ok := gen.funcs[old.Name]
	if !ok {
		// Indexing reported an error for this function; skip its body.
		return
	}
	fgen := gen.newFuncGen(f)
	fgen.scope.push()
	defer fgen.scope.pop()
	// Spill incoming arguments to entry-block stack slots and bind the
	// parameter names, so that parameters are addressable and assignable
	// like any local.
	for _, param := range f.Params {
		// The incoming argument already occupies the plain name; locals
		// shadowing a parameter get suffixed slot identifiers.
		fgen.names[param.Name()]++
		slot := fgen.entry.NewAlloca(param.Typ)
		slot.SetName(param.Name() + ".addr")
		fgen.cur.NewStore(param, slot)
		if !fgen.scope.bind(param.Name(), slot) {
			gen.Errorf("%d:%d: duplicate parameter %q in function %q", old.Tok.Line, old.Tok.Col, param.Name(), old.Name)
			return
		}
	}
	if err := fgen.lowerBlock(old.Body); err != nil {
		gen.eh(err)
		return
	}
	// A body that falls through without an explicit return gets a
	// synthesized default-value return.
	fgen.terminate()
	fgen.verify()
}

// terminate appends a default-value return to every basic block of the
// function that lacks a terminator: the fallthrough block at the end of
// the body, and any unreachable block introduced by code following a
// return.
func (fgen *funcGen) terminate() {
	retType := fgen.f.Sig.RetType
	for _, block := range fgen.f.Blocks {
		if block.Term != nil {
			continue
		}
		if retType.Equal(types.Void) {
			block.NewRet(nil)
		} else {
			block.NewRet(zeroValue(retType))
		}
	}
}

// verify checks that every basic block of the function ends in exactly
// one terminator. A violation is a defect of the generator, not a
// user-facing condition, and fails loudly.
func (fgen *funcGen) verify() {
	for _, block := range fgen.f.Blocks {
		if block.Term == nil {
			panic(fmt.Errorf("basic block %q of function %q missing terminator", block.Name(), fgen.f.Name()))
		}
	}
}

// zeroValue returns the zero constant of the given type.
func zeroValue(t types.Type) constant.Constant {
	switch t := t.(type) {
	case *types.IntType:
		return constant.NewInt(t, 0)
	case *types.FloatType:
		return constant.NewFloat(t, 0)
	default:
		panic(fmt.Errorf("support for zero value of type %T not yet implemented", t))
	}
}
