package lower

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"

	"github.com/mewspring/cee/ast"
	"github.com/mewspring/cee/token"
)

// lowerExpr lowers the Cee expression to LLVM IR, emitting to f.
func (fgen *funcGen) lowerExpr(old ast.Expr) (value.Value, error) {
	switch old := old.(type) {
	case *ast.NumberLit:
		return fgen.lowerNumberLit(old), nil
	case *ast.Ident:
		return fgen.lowerIdent(old)
	case *ast.Binary:
		return fgen.lowerBinary(old)
	case *ast.Unary:
		return fgen.lowerUnary(old)
	case *ast.Call:
		return fgen.lowerCall(old)
	case *ast.Assign:
		return fgen.lowerAssign(old)
	default:
		panic(fmt.Errorf("support for expression %T not yet implemented", old))
	}
}

// lowerNumberLit lowers the Cee numeric literal to LLVM IR. Integer
// literals lower to i32 constants and floating literals to double
// constants.
func (fgen *funcGen) lowerNumberLit(old *ast.NumberLit) value.Value {
	if old.Tok.IsFloat {
		return constant.NewFloat(types.Double, old.Tok.Val)
	}
	return constant.NewInt(types.I32, int64(old.Tok.Val))
}

// lowerIdent lowers the Cee variable reference to LLVM IR, loading from
// the stack slot the name resolves to.
func (fgen *funcGen) lowerIdent(old *ast.Ident) (value.Value, error) {
	slot, ok := fgen.scope.lookup(old.Name)
	if !ok {
		return nil, errors.Errorf("%d:%d: unknown variable name %q", old.Tok.Line, old.Tok.Col, old.Name)
	}
	return fgen.cur.NewLoad(slot.ElemType, slot), nil
}

// lowerAssign lowers the right-hand side, stores it to the stack slot
// the target name resolves to, and yields the stored value.
func (fgen *funcGen) lowerAssign(old *ast.Assign) (value.Value, error) {
	slot, ok := fgen.scope.lookup(old.Target)
	if !ok {
		return nil, errors.Errorf("%d:%d: unknown variable name %q", old.Tok.Line, old.Tok.Col, old.Target)
	}
	v, err := fgen.lowerExpr(old.Value)
	if err != nil {
		return nil, err
	}
	v, err = fgen.coerce(v, slot.ElemType, old.Tok)
	if err != nil {
		return nil, err
	}
	fgen.cur.NewStore(v, slot)
	return v, nil
}

// lowerBinary lowers the Cee binary expression to LLVM IR. Operands are
// evaluated left-to-right; a fixed order, deliberately not left to
// backend scheduling. When one operand is int and the other double, the
// int operand is promoted before the operation.
func (fgen *funcGen) lowerBinary(old *ast.Binary) (value.Value, error) {
	x, err := fgen.lowerExpr(old.X)
	if err != nil {
		return nil, err
	}
	y, err := fgen.lowerExpr(old.Y)
	if err != nil {
		return nil, err
	}
	x, y, err = fgen.promote(x, y, old.Op)
	if err != nil {
		return nil, err
	}
	float := isFloat(x.Type())
	switch old.Op.Kind {
	// Arithmetic operations.
	case token.Add:
		if float {
			return fgen.cur.NewFAdd(x, y), nil
		}
		return fgen.cur.NewAdd(x, y), nil
	case token.Sub:
		if float {
			return fgen.cur.NewFSub(x, y), nil
		}
		return fgen.cur.NewSub(x, y), nil
	case token.Mul:
		if float {
			return fgen.cur.NewFMul(x, y), nil
		}
		return fgen.cur.NewMul(x, y), nil
	case token.Div:
		if float {
			return fgen.cur.NewFDiv(x, y), nil
		}
		return fgen.cur.NewSDiv(x, y), nil
	// Relational operations, yielding i1.
	case token.Eq:
		if float {
			return fgen.cur.NewFCmp(enum.FPredUEQ, x, y), nil
		}
		return fgen.cur.NewICmp(enum.IPredEQ, x, y), nil
	case token.Neq:
		if float {
			return fgen.cur.NewFCmp(enum.FPredUNE, x, y), nil
		}
		return fgen.cur.NewICmp(enum.IPredNE, x, y), nil
	case token.Lt:
		if float {
			return fgen.cur.NewFCmp(enum.FPredULT, x, y), nil
		}
		return fgen.cur.NewICmp(enum.IPredSLT, x, y), nil
	case token.Gt:
		if float {
			return fgen.cur.NewFCmp(enum.FPredUGT, x, y), nil
		}
		return fgen.cur.NewICmp(enum.IPredSGT, x, y), nil
	case token.Leq:
		if float {
			return fgen.cur.NewFCmp(enum.FPredULE, x, y), nil
		}
		return fgen.cur.NewICmp(enum.IPredSLE, x, y), nil
	case token.Geq:
		if float {
			return fgen.cur.NewFCmp(enum.FPredUGE, x, y), nil
		}
		return fgen.cur.NewICmp(enum.IPredSGE, x, y), nil
	default:
		panic(fmt.Errorf("support for '%s' binary expression not yet implemented", old.Op.Lexeme))
	}
}

// lowerUnary lowers the Cee prefix expression to LLVM IR.
func (fgen *funcGen) lowerUnary(old *ast.Unary) (value.Value, error) {
	x, err := fgen.lowerExpr(old.X)
	if err != nil {
		return nil, err
	}
	switch old.Op.Kind {
	case token.Sub:
		switch t := x.Type().(type) {
		case *types.IntType:
			if t.BitSize == 1 {
				x = fgen.cur.NewZExt(x, types.I32)
			}
			return fgen.cur.NewSub(zeroValue(x.Type()), x), nil
		case *types.FloatType:
			return fgen.cur.NewFNeg(x), nil
		default:
			return nil, errors.Errorf("%d:%d: invalid operand type %v to unary '-'", old.Op.Line, old.Op.Col, x.Type())
		}
	case token.Not:
		// Logical negation: compare against zero for equality, yielding
		// i1.
		switch t := x.Type().(type) {
		case *types.IntType:
			if t.BitSize == 1 {
				return fgen.cur.NewXor(x, constant.True), nil
			}
			return fgen.cur.NewICmp(enum.IPredEQ, x, zeroValue(t)), nil
		case *types.FloatType:
			return fgen.cur.NewFCmp(enum.FPredUEQ, x, zeroValue(t)), nil
		default:
			return nil, errors.Errorf("%d:%d: invalid operand type %v to unary '!'", old.Op.Line, old.Op.Col, x.Type())
		}
	default:
		panic(fmt.Errorf("support for '%s' unary expression not yet implemented", old.Op.Lexeme))
	}
}

// lowerCall lowers the Cee call expression to LLVM IR. The callee is
// resolved in the module-level function index; an unknown callee or an
// argument count mismatch is rejected before any argument is lowered,
// so no partial IR for the call is emitted. Arguments are evaluated
// left-to-right.
func (fgen *funcGen) lowerCall(old *ast.Call) (value.Value, error) {
	callee, ok := fgen.gen.funcs[old.Callee]
	if !ok {
		return nil, errors.Errorf("%d:%d: unknown function %q referenced", old.Tok.Line, old.Tok.Col, old.Callee)
	}
	if len(old.Args) != len(callee.Params) {
		return nil, errors.Errorf("%d:%d: incorrect number of arguments passed to %q; expected %d, got %d", old.Tok.Line, old.Tok.Col, old.Callee, len(callee.Params), len(old.Args))
	}
	var args []value.Value
	for i, oldArg := range old.Args {
		arg, err := fgen.lowerExpr(oldArg)
		if err != nil {
			return nil, err
		}
		arg, err = fgen.coerce(arg, callee.Params[i].Typ, old.Tok)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return fgen.cur.NewCall(callee, args...), nil
}

// lowerCond lowers the Cee expression and coerces the result to i1 with
// a not-equal-zero comparison. Values already of boolean type pass
// through untouched.
func (fgen *funcGen) lowerCond(old ast.Expr) (value.Value, error) {
	v, err := fgen.lowerExpr(old)
	if err != nil {
		return nil, err
	}
	switch t := v.Type().(type) {
	case *types.IntType:
		if t.BitSize == 1 {
			return v, nil
		}
		return fgen.cur.NewICmp(enum.IPredNE, v, zeroValue(t)), nil
	case *types.FloatType:
		return fgen.cur.NewFCmp(enum.FPredONE, v, zeroValue(t)), nil
	default:
		return nil, errors.Errorf("invalid condition type %v", v.Type())
	}
}

// ### [ Helper functions ] ####################################################

// promote brings the operands of a binary expression to a common type:
// i1 operands widen to i32, and an int operand mixed with a double
// operand converts to double.
func (fgen *funcGen) promote(x, y value.Value, op token.Token) (value.Value, value.Value, error) {
	if isBool(x.Type()) && !isBool(y.Type()) {
		x = fgen.cur.NewZExt(x, types.I32)
	}
	if isBool(y.Type()) && !isBool(x.Type()) {
		y = fgen.cur.NewZExt(y, types.I32)
	}
	switch {
	case isFloat(x.Type()) && isInt(y.Type()):
		y = fgen.cur.NewSIToFP(y, x.Type())
	case isInt(x.Type()) && isFloat(y.Type()):
		x = fgen.cur.NewSIToFP(x, y.Type())
	}
	if !types.Equal(x.Type(), y.Type()) {
		return nil, nil, errors.Errorf("%d:%d: mismatched operand types %v and %v to '%s' binary expression", op.Line, op.Col, x.Type(), y.Type(), op.Lexeme)
	}
	return x, y, nil
}

// coerce converts v to the destination type, following C-like
// conversion rules: int to and from double, and bool widening into the
// numeric types. tok localizes the conversion site in error messages.
func (fgen *funcGen) coerce(v value.Value, to types.Type, tok token.Token) (value.Value, error) {
	from := v.Type()
	if types.Equal(from, to) {
		return v, nil
	}
	switch {
	case isBool(from) && isInt(to):
		return fgen.cur.NewZExt(v, to), nil
	case isBool(from) && isFloat(to):
		return fgen.cur.NewSIToFP(fgen.cur.NewZExt(v, types.I32), to), nil
	case isInt(from) && isFloat(to):
		return fgen.cur.NewSIToFP(v, to), nil
	case isFloat(from) && isInt(to):
		return fgen.cur.NewFPToSI(v, to), nil
	case isInt(from) && isBool(to):
		return fgen.cur.NewICmp(enum.IPredNE, v, zeroValue(from)), nil
	case isFloat(from) && isBool(to):
		return fgen.cur.NewFCmp(enum.FPredONE, v, zeroValue(from)), nil
	}
	return nil, errors.Errorf("%d:%d: unable to convert value of type %v to %v", tok.Line, tok.Col, from, to)
}
