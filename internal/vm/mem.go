package vm

import "encoding/binary"

// Memory is the machine's 64 KiB linear address space. Every access is bounds-checked: reads past
// the end return the zero value, writes past the end are no-ops. This is the enforcement point
// for spec's safety guarantee that a user program can never corrupt or crash the kernel hosting
// it.
type Memory struct {
	bytes [MemSize]byte
}

// Load32 reads a little-endian 32-bit word at addr.
func (m *Memory) Load32(addr Word) Word {
	if addr < 0 || int(addr)+4 > MemSize {
		return 0
	}

	return Word(binary.LittleEndian.Uint32(m.bytes[addr : addr+4]))
}

// Store32 writes a little-endian 32-bit word at addr.
func (m *Memory) Store32(addr Word, v Word) {
	if addr < 0 || int(addr)+4 > MemSize {
		return
	}

	binary.LittleEndian.PutUint32(m.bytes[addr:addr+4], uint32(v))
}

// Load8 reads a single byte at addr, zero-extended.
func (m *Memory) Load8(addr Word) Word {
	if addr < 0 || int(addr) >= MemSize {
		return 0
	}

	return Word(m.bytes[addr])
}

// Store8 writes the low 8 bits of v at addr.
func (m *Memory) Store8(addr Word, v Word) {
	if addr < 0 || int(addr) >= MemSize {
		return
	}

	m.bytes[addr] = byte(v)
}

// ReadCString reads a NUL-terminated string starting at addr. An out-of-range addr yields the
// empty string rather than a fault, per the string-syscall safety rule.
func (m *Memory) ReadCString(addr Word) string {
	if addr < 0 || int(addr) >= MemSize {
		return ""
	}

	start := int(addr)

	end := start
	for end < MemSize && m.bytes[end] != 0 {
		end++
	}

	return string(m.bytes[start:end])
}

// WriteCString writes s followed by a NUL terminator at addr, truncating silently if it would
// run past the end of memory.
func (m *Memory) WriteCString(addr Word, s string) {
	if addr < 0 || int(addr) >= MemSize {
		return
	}

	start := int(addr)

	for i := 0; i < len(s) && start+i < MemSize; i++ {
		m.bytes[start+i] = s[i]
	}

	if term := start + len(s); term < MemSize {
		m.bytes[term] = 0
	}
}

// Slice returns the raw bytes in [addr, addr+n), clamped to memory bounds.
func (m *Memory) Slice(addr, n Word) []byte {
	if addr < 0 || int(addr) >= MemSize || n <= 0 {
		return nil
	}

	end := int(addr) + int(n)
	if end > MemSize {
		end = MemSize
	}

	return m.bytes[addr:end]
}

// load copies program bytes into memory starting at address 0, truncating silently if the
// program is larger than memory.
func (m *Memory) load(program []byte) {
	copy(m.bytes[:], program)
}

func (m *Memory) clear() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}
