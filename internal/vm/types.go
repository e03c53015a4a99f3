package vm

// Word is a 32-bit value: a stack slot, a memory word, or an address.
type Word int32

const (
	// MemSize is the machine's total linear address space.
	MemSize = 64 * 1024

	// StackMax is the deepest the operand stack may grow.
	StackMax = 256

	// DataSegStart is the first address the compiler assigns to a global variable.
	DataSegStart = 4096

	// HeapStart is where the malloc syscall's bump allocator begins.
	HeapStart = 8192

	// entryPoint is the program counter's initial value: just past the 8-byte header
	// (7-byte magic + 1-byte version).
	entryPoint = 8
)

// Magic is the fixed 7-byte header every kernel executable starts with.
const Magic = "BREWEXE"

// Version is the only executable format version this VM understands.
const Version = 1
