package lower

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/pkg/errors"

	"github.com/mewspring/cee/ast"
)

// lowerStmt lowers the Cee statement to LLVM IR, emitting to f.
func (fgen *funcGen) lowerStmt(old ast.Stmt) error {
	switch old := old.(type) {
	case *ast.VarDecl:
		return fgen.lowerVarDecl(old)
	case *ast.ExprStmt:
		_, err := fgen.lowerExpr(old.X)
		return err
	case *ast.Return:
		return fgen.lowerReturn(old)
	case *ast.If:
		return fgen.lowerIf(old)
	case *ast.While:
		return fgen.lowerWhile(old)
	case *ast.Block:
		return fgen.lowerBlock(old)
	default:
		panic(fmt.Errorf("support for statement %T not yet implemented", old))
	}
}

// lowerBlock lowers the statements of the block in a fresh scope frame.
// Statements following a terminator (unreachable code) are lowered into
// a fresh basic block rather than appended after the terminator, which
// preserves the invariant that a basic block holds at most one
// terminator and no instruction after it.
func (fgen *funcGen) lowerBlock(old *ast.Block) error {
	fgen.scope.push()
	defer fgen.scope.pop()
	for _, stmt := range old.Stmts {
		if fgen.cur.Term != nil {
			fgen.cur = fgen.newBlock("dead")
		}
		if err := fgen.lowerStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// lowerVarDecl allocates an entry-block stack slot for the declared
// variable, binds the name in the current scope frame and stores either
// the lowered initializer or a type-appropriate zero value.
func (fgen *funcGen) lowerVarDecl(old *ast.VarDecl) error {
	typ, err := irType(old.Type)
	if err != nil {
		return err
	}
	if typ.Equal(types.Void) {
		return errors.Errorf("%d:%d: variable %q declared void", old.Tok.Line, old.Tok.Col, old.Name)
	}
	slot := fgen.entry.NewAlloca(typ)
	slot.SetName(fgen.localName(old.Name))
	if old.Init != nil {
		init, err := fgen.lowerExpr(old.Init)
		if err != nil {
			return err
		}
		init, err = fgen.coerce(init, typ, old.Tok)
		if err != nil {
			return err
		}
		fgen.cur.NewStore(init, slot)
	} else {
		fgen.cur.NewStore(zeroValue(typ), slot)
	}
	if !fgen.scope.bind(old.Name, slot) {
		return errors.Errorf("%d:%d: redeclaration of %q", old.Tok.Line, old.Tok.Col, old.Name)
	}
	return nil
}

// lowerReturn lowers the operand, if any, and emits a return
// terminator.
func (fgen *funcGen) lowerReturn(old *ast.Return) error {
	retType := fgen.f.Sig.RetType
	if old.X == nil {
		if !retType.Equal(types.Void) {
			return errors.Errorf("%d:%d: missing return value in function %q of return type %v", old.Tok.Line, old.Tok.Col, fgen.f.Name(), retType)
		}
		fgen.cur.NewRet(nil)
		return nil
	}
	if retType.Equal(types.Void) {
		return errors.Errorf("%d:%d: return with value in void function %q", old.Tok.Line, old.Tok.Col, fgen.f.Name())
	}
	x, err := fgen.lowerExpr(old.X)
	if err != nil {
		return err
	}
	x, err = fgen.coerce(x, retType, old.Tok)
	if err != nil {
		return err
	}
	fgen.cur.NewRet(x)
	return nil
}

// lowerIf lowers the conditional, shifting the insertion cursor through
// the then, else and merge blocks. After lowering a branch body, a
// branch to the merge block is emitted only if the body did not already
// end in a terminator.
func (fgen *funcGen) lowerIf(old *ast.If) error {
	cond, err := fgen.lowerCond(old.Cond)
	if err != nil {
		return err
	}
	thenBlock := fgen.newBlock("then")
	var elseBlock *ir.Block
	if old.Else != nil {
		elseBlock = fgen.newBlock("else")
	}
	mergeBlock := fgen.newBlock("ifcont")
	if old.Else != nil {
		fgen.cur.NewCondBr(cond, thenBlock, elseBlock)
	} else {
		fgen.cur.NewCondBr(cond, thenBlock, mergeBlock)
	}
	// Then branch.
	fgen.cur = thenBlock
	if err := fgen.lowerStmt(old.Then); err != nil {
		return err
	}
	if fgen.cur.Term == nil {
		fgen.cur.NewBr(mergeBlock)
	}
	// Else branch.
	if old.Else != nil {
		fgen.cur = elseBlock
		if err := fgen.lowerStmt(old.Else); err != nil {
			return err
		}
		if fgen.cur.Term == nil {
			fgen.cur.NewBr(mergeBlock)
		}
	}
	// Resume emission at the merge block.
	fgen.cur = mergeBlock
	return nil
}

// lowerWhile lowers the pre-test loop through cond, body and after
// blocks. The body branches back to the condition block unless it
// already ended in a terminator.
func (fgen *funcGen) lowerWhile(old *ast.While) error {
	condBlock := fgen.newBlock("whilecond")
	bodyBlock := fgen.newBlock("whileloop")
	afterBlock := fgen.newBlock("afterloop")
	fgen.cur.NewBr(condBlock)
	// Condition.
	fgen.cur = condBlock
	cond, err := fgen.lowerCond(old.Cond)
	if err != nil {
		return err
	}
	fgen.cur.NewCondBr(cond, bodyBlock, afterBlock)
	// Body.
	fgen.cur = bodyBlock
	if err := fgen.lowerStmt(old.Body); err != nil {
		return err
	}
	if fgen.cur.Term == nil {
		fgen.cur.NewBr(condBlock)
	}
	// Resume emission after the loop.
	fgen.cur = afterBlock
	return nil
}
