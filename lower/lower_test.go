package lower_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"

	"github.com/mewspring/cee/lower"
	"github.com/mewspring/cee/parser"
)

// compile lowers the given source text, returning the module and the
// errors reported during lowering.
func compile(t *testing.T, source string) (*ir.Module, []error) {
	t.Helper()
	prog, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var errs []error
	eh := func(err error) {
		errs = append(errs, err)
	}
	gen := lower.NewGenerator(eh, prog)
	m := gen.Lower()
	return m, errs
}

// compileOK lowers the given source text and fails the test on any
// reported error.
func compileOK(t *testing.T, source string) *ir.Module {
	t.Helper()
	m, errs := compile(t, source)
	for _, err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	if t.Failed() {
		t.FailNow()
	}
	return m
}

func findFunc(t *testing.T, m *ir.Module, name string) *ir.Func {
	t.Helper()
	for _, f := range m.Funcs {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("function %q not found in module", name)
	return nil
}

func findBlock(t *testing.T, f *ir.Func, name string) *ir.Block {
	t.Helper()
	for _, block := range f.Blocks {
		if block.Name() == name {
			return block
		}
	}
	t.Fatalf("basic block %q not found in function %q", name, f.Name())
	return nil
}

// checkWellFormed verifies that every basic block of every function
// definition ends in exactly one terminator and that no instruction
// follows it; with llir the terminator is held apart from the
// instruction list, so a single non-nil terminator per block is the
// whole invariant.
func checkWellFormed(t *testing.T, m *ir.Module) {
	t.Helper()
	for _, f := range m.Funcs {
		for _, block := range f.Blocks {
			if block.Term == nil {
				t.Errorf("basic block %q of function %q lacks a terminator", block.Name(), f.Name())
			}
		}
	}
}

const factorialSrc = `
int factorial(int n) {
    if (n < 2) {
        return 1;
    }
    return n * factorial(n - 1);
}

int main() {
    int result = factorial(5);
    return result;
}
`

func TestDeterminism(t *testing.T) {
	first := compileOK(t, factorialSrc).String()
	second := compileOK(t, factorialSrc).String()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("non-deterministic module output (-first +second):\n%s", diff)
	}
}

func TestReturnArithmetic(t *testing.T) {
	m := compileOK(t, "int main() { return 1 + 2 * 3; }")
	f := findFunc(t, m, "main")
	if len(f.Params) != 0 {
		t.Errorf("main should have no parameters, got %d", len(f.Params))
	}
	if len(f.Blocks) != 1 {
		t.Fatalf("main should have a single entry block, got %d blocks", len(f.Blocks))
	}
	entry := f.Blocks[0]
	if len(entry.Insts) != 2 {
		t.Fatalf("expected mul and add instructions, got %d instructions", len(entry.Insts))
	}
	mul, ok := entry.Insts[0].(*ir.InstMul)
	if !ok {
		t.Fatalf("expected mul as first instruction, got %T", entry.Insts[0])
	}
	add, ok := entry.Insts[1].(*ir.InstAdd)
	if !ok {
		t.Fatalf("expected add as second instruction, got %T", entry.Insts[1])
	}
	if add.Y != mul {
		t.Errorf("add should consume the mul result as its right operand")
	}
	ret, ok := entry.Term.(*ir.TermRet)
	if !ok {
		t.Fatalf("expected ret terminator, got %T", entry.Term)
	}
	if ret.X != add {
		t.Errorf("ret should return the add result")
	}
}

func TestFactorialStructure(t *testing.T) {
	m := compileOK(t, factorialSrc)
	checkWellFormed(t, m)
	f := findFunc(t, m, "factorial")
	if len(f.Blocks) != 3 {
		t.Fatalf("expected entry, then and merge blocks, got %d", len(f.Blocks))
	}
	entry := findBlock(t, f, "entry")
	if _, ok := entry.Term.(*ir.TermCondBr); !ok {
		t.Errorf("entry should end in a conditional branch, got %T", entry.Term)
	}
	then := findBlock(t, f, "then.1")
	if _, ok := then.Term.(*ir.TermRet); !ok {
		t.Errorf("then block should end in ret, got %T", then.Term)
	}
	merge := findBlock(t, f, "ifcont.2")
	if _, ok := merge.Term.(*ir.TermRet); !ok {
		t.Errorf("merge block should end in ret, got %T", merge.Term)
	}
	var call *ir.InstCall
	for _, inst := range merge.Insts {
		if c, ok := inst.(*ir.InstCall); ok {
			call = c
		}
	}
	if call == nil {
		t.Fatal("expected recursive call in merge block")
	}
	if callee, ok := call.Callee.(*ir.Func); !ok || callee.Name() != "factorial" {
		t.Errorf("expected call to factorial, got %v", call.Callee)
	}
}

func TestWhileStructure(t *testing.T) {
	const src = `
int main() {
    int sum = 0;
    int i = 0;
    while (i < 10) {
        sum = sum + i;
        i = i + 1;
    }
    return sum;
}
`
	m := compileOK(t, src)
	checkWellFormed(t, m)
	f := findFunc(t, m, "main")
	entry := findBlock(t, f, "entry")
	cond := findBlock(t, f, "whilecond.1")
	body := findBlock(t, f, "whileloop.2")
	after := findBlock(t, f, "afterloop.3")
	br, ok := entry.Term.(*ir.TermBr)
	if !ok {
		t.Fatalf("entry should branch unconditionally to the condition block, got %T", entry.Term)
	}
	if br.Target != cond {
		t.Errorf("entry should branch to %q", cond.Name())
	}
	condBr, ok := cond.Term.(*ir.TermCondBr)
	if !ok {
		t.Fatalf("condition block should end in a conditional branch, got %T", cond.Term)
	}
	if condBr.TargetTrue != body || condBr.TargetFalse != after {
		t.Errorf("conditional branch should select body or after block")
	}
	backBr, ok := body.Term.(*ir.TermBr)
	if !ok {
		t.Fatalf("loop body should branch back to the condition block, got %T", body.Term)
	}
	if backBr.Target != cond {
		t.Errorf("loop body should branch back to %q", cond.Name())
	}
	if _, ok := after.Term.(*ir.TermRet); !ok {
		t.Errorf("after block should end in ret, got %T", after.Term)
	}
}

func TestZeroInit(t *testing.T) {
	m := compileOK(t, "int main() { int x; return x; }")
	f := findFunc(t, m, "main")
	entry := f.Blocks[0]
	var store *ir.InstStore
	for _, inst := range entry.Insts {
		if s, ok := inst.(*ir.InstStore); ok {
			store = s
			break
		}
	}
	if store == nil {
		t.Fatal("expected a store of the default value")
	}
	c, ok := store.Src.(*constant.Int)
	if !ok {
		t.Fatalf("expected constant default value, got %T", store.Src)
	}
	if c.X.Int64() != 0 {
		t.Errorf("default value should be zero, got %v", c.X)
	}
}

func TestShadowing(t *testing.T) {
	const src = `
int main() {
    int x = 1;
    {
        int x = 2;
        x = 3;
    }
    return x;
}
`
	m := compileOK(t, src)
	f := findFunc(t, m, "main")
	entry := f.Blocks[0]
	var slots []*ir.InstAlloca
	for _, inst := range entry.Insts {
		if a, ok := inst.(*ir.InstAlloca); ok {
			slots = append(slots, a)
		}
	}
	if len(slots) != 2 {
		t.Fatalf("expected two distinct stack slots, got %d", len(slots))
	}
	if slots[0].Name() == slots[1].Name() {
		t.Errorf("shadowing slots must have distinct identifiers, both are %q", slots[0].Name())
	}
	// The load feeding the final return must read the outer slot: the
	// inner binding is discarded when its block closes.
	ret := entry.Term.(*ir.TermRet)
	load, ok := ret.X.(*ir.InstLoad)
	if !ok {
		t.Fatalf("expected ret of a loaded variable, got %T", ret.X)
	}
	if load.Src != slots[0] {
		t.Errorf("return should load the outer x, not the shadowing one")
	}
}

func TestScopeExit(t *testing.T) {
	_, errs := compile(t, "int main() { { int y = 1; } return y; }")
	if len(errs) == 0 {
		t.Fatal("expected unresolved variable error")
	}
	if !strings.Contains(errs[0].Error(), `unknown variable name "y"`) {
		t.Errorf("unexpected error: %v", errs[0])
	}
}

func TestRedeclaration(t *testing.T) {
	_, errs := compile(t, "int main() { int x; int x; return 0; }")
	if len(errs) == 0 {
		t.Fatal("expected redeclaration error")
	}
	if !strings.Contains(errs[0].Error(), `redeclaration of "x"`) {
		t.Errorf("unexpected error: %v", errs[0])
	}
}

func TestUndeclaredCallee(t *testing.T) {
	m, errs := compile(t, "int main() { return foo(); }")
	if len(errs) == 0 {
		t.Fatal("expected unknown function error")
	}
	if !strings.Contains(errs[0].Error(), `unknown function "foo"`) {
		t.Errorf("unexpected error: %v", errs[0])
	}
	// No call instruction may be emitted for the rejected call site.
	for _, f := range m.Funcs {
		for _, block := range f.Blocks {
			for _, inst := range block.Insts {
				if _, ok := inst.(*ir.InstCall); ok {
					t.Error("no call instruction may be emitted for an unknown callee")
				}
			}
		}
	}
}

func TestArityMismatch(t *testing.T) {
	const src = `
int add(int a, int b) { return a + b; }
int main() { return add(1); }
`
	m, errs := compile(t, src)
	if len(errs) == 0 {
		t.Fatal("expected arity error")
	}
	if !strings.Contains(errs[0].Error(), "incorrect number of arguments") {
		t.Errorf("unexpected error: %v", errs[0])
	}
	main := findFunc(t, m, "main")
	for _, block := range main.Blocks {
		for _, inst := range block.Insts {
			if _, ok := inst.(*ir.InstCall); ok {
				t.Error("the mismatched call site must be rejected before any IR for the call is emitted")
			}
		}
	}
}

// A failed function emission must not corrupt emission of subsequent
// functions.
func TestFailedEmissionIsolated(t *testing.T) {
	const src = `
int bad() { return nope; }
int good() { return 7; }
`
	m, errs := compile(t, src)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	good := findFunc(t, m, "good")
	ret, ok := good.Blocks[0].Term.(*ir.TermRet)
	if !ok {
		t.Fatalf("good should emit normally, got terminator %T", good.Blocks[0].Term)
	}
	c, ok := ret.X.(*constant.Int)
	if !ok || c.X.Int64() != 7 {
		t.Errorf("good should return 7, got %v", ret.X)
	}
}

func TestExternOrdering(t *testing.T) {
	const src = `
extern double sin(double x);
extern double atan2(double y, double x);
extern double cos(double x);

int main() { return 0; }
`
	m := compileOK(t, src)
	var names []string
	for _, f := range m.Funcs {
		names = append(names, f.Name())
	}
	want := []string{"atan2", "cos", "sin", "main"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("function ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizedReturn(t *testing.T) {
	m := compileOK(t, "int f() { } void g() { } double h() { }")
	fRet, ok := findFunc(t, m, "f").Blocks[0].Term.(*ir.TermRet)
	if !ok {
		t.Fatal("f should get a synthesized return")
	}
	if c, ok := fRet.X.(*constant.Int); !ok || c.X.Int64() != 0 {
		t.Errorf("f should return zero, got %v", fRet.X)
	}
	gRet, ok := findFunc(t, m, "g").Blocks[0].Term.(*ir.TermRet)
	if !ok {
		t.Fatal("g should get a synthesized return")
	}
	if gRet.X != nil {
		t.Errorf("g should return void, got %v", gRet.X)
	}
	hRet, ok := findFunc(t, m, "h").Blocks[0].Term.(*ir.TermRet)
	if !ok {
		t.Fatal("h should get a synthesized return")
	}
	if _, ok := hRet.X.(*constant.Float); !ok {
		t.Errorf("h should return a floating zero, got %v", hRet.X)
	}
}

func TestUnreachableAfterReturn(t *testing.T) {
	m := compileOK(t, "int main() { return 1; int z = 2; return z; }")
	checkWellFormed(t, m)
	f := findFunc(t, m, "main")
	entry := findBlock(t, f, "entry")
	ret, ok := entry.Term.(*ir.TermRet)
	if !ok {
		t.Fatalf("entry should end in ret, got %T", entry.Term)
	}
	if c, ok := ret.X.(*constant.Int); !ok || c.X.Int64() != 1 {
		t.Errorf("entry should return 1, got %v", ret.X)
	}
	if len(f.Blocks) != 2 {
		t.Errorf("unreachable code should land in its own block, got %d blocks", len(f.Blocks))
	}
}

func TestNumericPromotion(t *testing.T) {
	m := compileOK(t, "double f(int n) { return n + 1.5; }")
	entry := findFunc(t, m, "f").Blocks[0]
	var sitofp *ir.InstSIToFP
	var fadd *ir.InstFAdd
	for _, inst := range entry.Insts {
		switch inst := inst.(type) {
		case *ir.InstSIToFP:
			sitofp = inst
		case *ir.InstFAdd:
			fadd = inst
		}
	}
	if sitofp == nil {
		t.Error("expected the int operand to be promoted with sitofp")
	}
	if fadd == nil {
		t.Error("expected a floating add after promotion")
	}
}

func TestReturnConversion(t *testing.T) {
	m := compileOK(t, "int f() { double d = 2.5; return d; }")
	entry := findFunc(t, m, "f").Blocks[0]
	found := false
	for _, inst := range entry.Insts {
		if _, ok := inst.(*ir.InstFPToSI); ok {
			found = true
		}
	}
	if !found {
		t.Error("expected fptosi conversion of the return value")
	}
}

func TestVoidReturnErrors(t *testing.T) {
	_, errs := compile(t, "int f() { return; }")
	if len(errs) == 0 || !strings.Contains(errs[0].Error(), "missing return value") {
		t.Errorf("expected missing return value error, got %v", errs)
	}
	_, errs = compile(t, "void g() { return 1; }")
	if len(errs) == 0 || !strings.Contains(errs[0].Error(), "return with value in void function") {
		t.Errorf("expected void return error, got %v", errs)
	}
}

// Unknown type names are rejected outright, never silently coerced to
// a fallback type. The grammar only admits the known type keywords, so
// the rejection happens at parse time.
func TestUnknownType(t *testing.T) {
	if _, err := parser.Parse("float f() { return 0; }"); err == nil {
		t.Fatal("expected error for unknown type name")
	}
}

func TestModuleDump(t *testing.T) {
	m := compileOK(t, "int main() { return 0; }")
	out := m.String()
	if !strings.Contains(out, "define i32 @main()") {
		t.Errorf("unexpected module dump:\n%s", out)
	}
	if !strings.Contains(out, "entry:") {
		t.Errorf("expected labeled entry block in dump:\n%s", out)
	}
}
