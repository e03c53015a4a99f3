// Package compiler translates a single-function C-like source program into a BREWEXE bytecode
// executable for internal/vm.
//
// The pipeline is a single-pass lexer feeding a recursive-descent parser that emits bytecode as it
// recognizes each construct, exactly as the reference `cc` tool does: there is no separate AST or
// code-generation pass. Forward jumps (the false branch of an `if`, the exit of a `while`) are
// emitted with a placeholder operand and patched in place once the target address is known. String
// literals are pooled during parsing and linked into absolute addresses in one pass once the code
// size is final.
package compiler
