package vm

import "fmt"

// Decode validates a kernel executable's header (7-byte "BREWEXE" magic, 1-byte version) and
// returns the program bytes ready for Reset. It does not execute anything.
func Decode(data []byte) ([]byte, error) {
	if len(data) < len(Magic)+1 {
		return nil, fmt.Errorf("vm: executable too short: %d bytes", len(data))
	}

	if string(data[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("vm: bad magic %q, want %q", data[:len(Magic)], Magic)
	}

	if data[len(Magic)] != Version {
		return nil, fmt.Errorf("vm: unsupported version %d", data[len(Magic)])
	}

	if len(data) > MemSize {
		return nil, fmt.Errorf("vm: executable %d bytes exceeds %d-byte memory", len(data), MemSize)
	}

	return data, nil
}

// Load validates and loads a kernel executable, leaving the machine ready to Step from its entry
// point.
func (in *Interp) Load(data []byte) error {
	program, err := Decode(data)
	if err != nil {
		return err
	}

	in.Reset(program)

	return nil
}
