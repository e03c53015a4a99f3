/*
Package vm implements the kernel's stack-machine bytecode interpreter.

Unlike the register-file micro-architectures this project started from, the bytecode produced by
internal/compiler has no addressing-mode variation per instruction: every opcode needs either zero
or one 4-byte immediate operand, decoded up-front by Step's single switch. There is no separate
fetch/decode/execute pipeline of cooperating units -- Step is both fetch and execute, reading
straight out of Memory at PC.

# Memory #

The machine has one flat, byte-addressable memory of 64 KiB. A loaded program occupies memory
starting at address 0; code and data therefore share the address space, same as the original
kernel's executables. Every load and store is bounds-checked: reads past the end of memory return
0, writes are silently dropped. There is no fault path -- a runaway user program can't be allowed
to corrupt or crash the kernel that's running it.

# Stack #

Values are 32-bit words on a bounded operand stack (at most 256 entries). Binary operators pop two
operands and push one result; SYSCALL pops its arguments and always pushes a return value, even for
syscalls with no meaningful result, so that the compiler's expression-statement POP always has
something to discard.

# Syscalls #

SYSCALL dispatches into internal/monitor, which holds the table mapping syscall ids to host Go
functions -- printing, memory, string, math, and graphics routines a bytecode program has no other
way to reach.
*/
package vm
