package lower

import (
	"github.com/llir/llvm/ir/types"
	"github.com/pkg/errors"

	"github.com/mewspring/cee/token"
)

// irType returns the LLVM IR type denoted by the given Cee type
// keyword. An unrecognized type name is an explicit error, never a
// silent fallback.
func irType(tok token.Token) (types.Type, error) {
	switch tok.Kind {
	case token.KwInt:
		return types.I32, nil
	case token.KwDouble:
		return types.Double, nil
	case token.KwBool:
		return types.I1, nil
	case token.KwVoid:
		return types.Void, nil
	}
	return nil, errors.Errorf("%d:%d: unknown type %q", tok.Line, tok.Col, tok.Lexeme)
}

// isInt reports whether t is an integer type wider than one bit.
func isInt(t types.Type) bool {
	if t, ok := t.(*types.IntType); ok {
		return t.BitSize > 1
	}
	return false
}

// isBool reports whether t is the one-bit integer type.
func isBool(t types.Type) bool {
	if t, ok := t.(*types.IntType); ok {
		return t.BitSize == 1
	}
	return false
}

// isFloat reports whether t is a floating-point type.
func isFloat(t types.Type) bool {
	_, ok := t.(*types.FloatType)
	return ok
}
