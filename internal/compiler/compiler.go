package compiler

import "github.com/brewos/kernel/internal/vm"

// Compile lexes, parses, and links source into a BREWEXE executable: the 7-byte magic, a 1-byte
// version, the opcode stream, and the linked string pool, ready to hand to vm.Decode.
func Compile(source string) ([]byte, error) {
	toks, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}

	body, err := NewParser(toks).Compile()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(vm.Magic)+1+len(body))
	out = append(out, vm.Magic...)
	out = append(out, vm.Version)
	out = append(out, body...)

	return out, nil
}
