package lower

import "github.com/llir/llvm/ir"

// scope is a stack of name to stack-slot bindings. A frame is pushed on
// function and block entry and popped on exit, discarding the bindings
// introduced in that frame. Lookup walks frames innermost to outermost,
// so an inner declaration shadows an outer one and the outer binding is
// restored when the inner frame is popped.
type scope struct {
	frames []map[string]*ir.InstAlloca
}

// push enters a new innermost frame.
func (s *scope) push() {
	s.frames = append(s.frames, make(map[string]*ir.InstAlloca))
}

// pop leaves the innermost frame.
func (s *scope) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// bind binds name to its stack slot in the innermost frame. The boolean
// result is false if name is already bound in that frame.
func (s *scope) bind(name string, slot *ir.InstAlloca) bool {
	frame := s.frames[len(s.frames)-1]
	if _, ok := frame[name]; ok {
		return false
	}
	frame[name] = slot
	return true
}

// lookup resolves name to its stack slot, innermost frame first. The
// boolean result is false if name is not bound in any frame.
func (s *scope) lookup(name string) (*ir.InstAlloca, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if slot, ok := s.frames[i][name]; ok {
			return slot, true
		}
	}
	return nil, false
}
