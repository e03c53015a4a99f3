package monitor

import (
	"fmt"

	"github.com/brewos/kernel/internal/vm"
)

var ioRoutines = []Routine{
	{Name: "print_int", ID: SysPrintInt, Code: func(m *Monitor, in *vm.Interp) {
		n := in.Pop()
		fmt.Fprintf(m.Output, "%d", n)
		in.Push(0)
	}},
	{Name: "print_char", ID: SysPrintChar, Code: func(m *Monitor, in *vm.Interp) {
		c := in.Pop()
		fmt.Fprintf(m.Output, "%c", byte(c))
		in.Push(0)
	}},
	{Name: "print_str", ID: SysPrintStr, Code: func(m *Monitor, in *vm.Interp) {
		addr := in.Pop()
		fmt.Fprint(m.Output, in.Mem.ReadCString(addr))
		in.Push(0)
	}},
	{Name: "getchar", ID: SysGetchar, Code: func(m *Monitor, in *vm.Interp) {
		if m.Input.Hit() {
			in.Push(vm.Word(m.Input.Read()))
		} else {
			in.Push(0)
		}
	}},
	{Name: "cls", ID: SysCls, Code: func(m *Monitor, in *vm.Interp) {
		fmt.Fprint(m.Output, "\x1b[2J\x1b[H")
		in.Push(0)
	}},
	{Name: "newline", ID: SysNewline, Code: func(m *Monitor, in *vm.Interp) {
		fmt.Fprintln(m.Output)
		in.Push(0)
	}},
	{Name: "kb_hit", ID: SysKBHit, Code: func(m *Monitor, in *vm.Interp) {
		in.Push(boolWord(m.Input.Hit()))
	}},
	{Name: "sleep", ID: SysSleep, Code: func(m *Monitor, in *vm.Interp) {
		in.Pop() // tick count; the cooperative scheduler has no real async sleep to honor it with.
		in.Push(0)
	}},
}

func boolWord(b bool) vm.Word {
	if b {
		return 1
	}

	return 0
}
