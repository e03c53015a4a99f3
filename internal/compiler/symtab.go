package compiler

import "github.com/brewos/kernel/internal/vm"

// symbolBase is the first address handed out to a declared variable, matching the data segment
// start the VM reserves for this purpose.
const symbolBase = vm.DataSegStart

// symbolStride is the size in bytes of every variable's slot. The language has only 32-bit ints
// and byte-addressed pointers, so every symbol -- scalar, pointer, or array head -- gets the same
// fixed stride; arrays never get more than one slot; see Parser.varDecl.
const symbolStride = 4

// SymbolTable assigns each declared variable a fixed absolute address in the VM's data segment, in
// declaration order, with no scoping beyond the single function body -- the shape elsie's
// assembler uses for label addresses, generalized here to local variables instead of code labels.
type SymbolTable struct {
	addr map[string]vm.Word
	next vm.Word
}

// NewSymbolTable returns an empty table that hands out addresses starting at the data segment
// base.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{addr: make(map[string]vm.Word), next: symbolBase}
}

// Lookup returns the address of name and true, or 0 and false if name was never declared.
func (s *SymbolTable) Lookup(name string) (vm.Word, bool) {
	a, ok := s.addr[name]
	return a, ok
}

// Declare assigns name a fresh address if it hasn't been declared already, and returns that
// address either way -- re-declaring a name is harmless, it just reuses its existing slot.
func (s *SymbolTable) Declare(name string) vm.Word {
	if a, ok := s.addr[name]; ok {
		return a
	}

	a := s.next
	s.addr[name] = a
	s.next += symbolStride

	return a
}
