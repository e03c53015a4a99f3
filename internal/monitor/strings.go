package monitor

import (
	"strings"

	"github.com/brewos/kernel/internal/vm"
)

func boolInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

var stringRoutines = []Routine{
	{Name: "strlen", ID: SysStrlen, Code: func(m *Monitor, in *vm.Interp) {
		addr := in.Pop()
		in.Push(vm.Word(len(in.Mem.ReadCString(addr))))
	}},
	{Name: "strcmp", ID: SysStrcmp, Code: func(m *Monitor, in *vm.Interp) {
		b := in.Pop()
		a := in.Pop()
		in.Push(vm.Word(strings.Compare(in.Mem.ReadCString(a), in.Mem.ReadCString(b))))
	}},
	{Name: "strcpy", ID: SysStrcpy, Code: func(m *Monitor, in *vm.Interp) {
		src := in.Pop()
		dst := in.Pop()
		in.Mem.WriteCString(dst, in.Mem.ReadCString(src))
		in.Push(dst)
	}},
	{Name: "strncmp", ID: SysStrncmp, Code: func(m *Monitor, in *vm.Interp) {
		n := in.Pop()
		b := in.Pop()
		a := in.Pop()

		sa, sb := truncate(in.Mem.ReadCString(a), n), truncate(in.Mem.ReadCString(b), n)
		in.Push(vm.Word(strings.Compare(sa, sb)))
	}},
	{Name: "strncpy", ID: SysStrncpy, Code: func(m *Monitor, in *vm.Interp) {
		n := in.Pop()
		src := in.Pop()
		dst := in.Pop()

		in.Mem.WriteCString(dst, truncate(in.Mem.ReadCString(src), n))
		in.Push(dst)
	}},
	{Name: "strncat", ID: SysStrncat, Code: func(m *Monitor, in *vm.Interp) {
		n := in.Pop()
		src := in.Pop()
		dst := in.Pop()

		joined := in.Mem.ReadCString(dst) + truncate(in.Mem.ReadCString(src), n)
		in.Mem.WriteCString(dst, joined)
		in.Push(dst)
	}},
	{Name: "strstr", ID: SysStrstr, Code: func(m *Monitor, in *vm.Interp) {
		needleAddr := in.Pop()
		hayAddr := in.Pop()

		hay := in.Mem.ReadCString(hayAddr)
		needle := in.Mem.ReadCString(needleAddr)

		if idx := strings.Index(hay, needle); idx >= 0 {
			in.Push(hayAddr + vm.Word(idx))
		} else {
			in.Push(0)
		}
	}},
	{Name: "strrchr", ID: SysStrrchr, Code: func(m *Monitor, in *vm.Interp) {
		ch := in.Pop()
		addr := in.Pop()

		s := in.Mem.ReadCString(addr)
		if idx := strings.LastIndexByte(s, byte(ch)); idx >= 0 {
			in.Push(addr + vm.Word(idx))
		} else {
			in.Push(0)
		}
	}},
	{Name: "isalnum", ID: SysIsalnum, Code: classify(func(c byte) bool {
		return isAlpha(c) || isDigit(c)
	})},
	{Name: "isalpha", ID: SysIsalpha, Code: classify(isAlpha)},
	{Name: "isdigit", ID: SysIsdigit, Code: classify(isDigit)},
	{Name: "tolower", ID: SysTolower, Code: func(m *Monitor, in *vm.Interp) {
		c := byte(in.Pop())
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}

		in.Push(vm.Word(c))
	}},
	{Name: "toupper", ID: SysToupper, Code: func(m *Monitor, in *vm.Interp) {
		c := byte(in.Pop())
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}

		in.Push(vm.Word(c))
	}},
}

func classify(pred func(byte) bool) func(*Monitor, *vm.Interp) {
	return func(m *Monitor, in *vm.Interp) {
		c := byte(in.Pop())
		in.Push(vm.Word(boolInt(pred(c))))
	}
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func truncate(s string, n vm.Word) string {
	if n < 0 || int(n) >= len(s) {
		return s
	}

	return s[:n]
}
