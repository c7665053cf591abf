package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/rickypai/natsort"

	"github.com/mewspring/cee/ast"
	"github.com/mewspring/cee/token"
)

// indexProgram indexes global identifiers and creates scaffolding IR
// function declarations and definitions (without bodies but with types)
// of the Cee program.
func (gen *Generator) indexProgram() {
	// Extern declarations are grouped ahead of the definitions and
	// emitted in natural sort order, to keep the module output
	// deterministic regardless of map iteration order.
	externs := make(map[string]*ast.ExternDecl)
	for _, extern := range gen.prog.Externs {
		if prev, ok := externs[extern.Name]; ok {
			gen.Errorf("%d:%d: extern %q already declared at %d:%d", extern.Tok.Line, extern.Tok.Col, extern.Name, prev.Tok.Line, prev.Tok.Col)
			continue
		}
		externs[extern.Name] = extern
	}
	var externNames []string
	for externName := range externs {
		externNames = append(externNames, externName)
	}
	natsort.Strings(externNames)
	for _, externName := range externNames {
		gen.indexExternDecl(externs[externName])
	}
	for _, f := range gen.prog.Funcs {
		gen.indexFuncDecl(f)
	}
}

// --- [ Function declarations ] -----------------------------------------------

// indexFuncDecl indexes the global identifier and creates a scaffolding
// IR function definition (without body but with types) of the Cee
// function declaration.
func (gen *Generator) indexFuncDecl(old *ast.FuncDecl) {
	f := gen.indexSig(old.Name, old.RetType, old.Params, old.Tok.Line, old.Tok.Col)
	if f == nil {
		return
	}
	gen.funcs[old.Name] = f
}

// indexExternDecl indexes the global identifier and creates an IR
// function declaration (no body) of the Cee extern declaration.
func (gen *Generator) indexExternDecl(old *ast.ExternDecl) {
	f := gen.indexSig(old.Name, old.RetType, old.Params, old.Tok.Line, old.Tok.Col)
	if f == nil {
		return
	}
	gen.funcs[old.Name] = f
}

// indexSig adds a function with the given signature to the module,
// reporting redefinitions and invalid parameter or return types. The
// returned function is nil if an error was reported.
func (gen *Generator) indexSig(name string, ret token.Token, params []ast.Param, line, col int) *ir.Func {
	if prev, ok := gen.funcs[name]; ok {
		gen.Errorf("%d:%d: function %q already present; prev `%v`", line, col, name, prev.Sig)
		return nil
	}
	retType, err := irType(ret)
	if err != nil {
		gen.eh(err)
		return nil
	}
	var ps []*ir.Param
	for _, param := range params {
		typ, err := irType(param.Type)
		if err != nil {
			gen.eh(err)
			return nil
		}
		if typ.Equal(types.Void) {
			gen.Errorf("%d:%d: invalid parameter type void for %q of function %q", param.Type.Line, param.Type.Col, param.Name, name)
			return nil
		}
		ps = append(ps, ir.NewParam(param.Name, typ))
	}
	return gen.m.NewFunc(name, retType, ps...)
}
