package lower

import (
	"fmt"

	"github.com/llir/llvm/ir"
)

// funcGen is an LLVM IR generator for a given function.
type funcGen struct {
	// Module generator.
	gen *Generator
	// Function scope stack.
	scope scope
	// LLVM IR function being generated.
	f *ir.Func
	// Entry basic block, which holds the stack slots of all locals.
	entry *ir.Block
	// Current basic block being generated; the insertion cursor.
	cur *ir.Block
	// Number of basic blocks created so far, used for unique labels.
	nblock int
	// Count of stack slots allocated per variable name, used to keep
	// slot identifiers unique when declarations shadow.
	names map[string]int
}

// newFuncGen returns a new LLVM IR function generator for the given
// module generator.
func (gen *Generator) newFuncGen(f *ir.Func) *funcGen {
	fgen := &funcGen{
		gen:   gen,
		f:     f,
		names: make(map[string]int),
	}
	fgen.entry = f.NewBlock("entry")
	fgen.cur = fgen.entry
	return fgen
}

// localName returns a unique stack-slot identifier for the given
// variable name. The first slot of a name keeps the plain name;
// shadowing declarations get a numeric suffix.
func (fgen *funcGen) localName(name string) string {
	n := fgen.names[name]
	fgen.names[name]++
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s.%d", name, n)
}

// newBlock appends a new basic block to the function. Labels carry a
// per-function sequence number so that repeated control-flow constructs
// never collide.
func (fgen *funcGen) newBlock(name string) *ir.Block {
	fgen.nblock++
	return fgen.f.NewBlock(fmt.Sprintf("%s.%d", name, fgen.nblock))
}
