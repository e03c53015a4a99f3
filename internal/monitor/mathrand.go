package monitor

import "github.com/brewos/kernel/internal/vm"

var mathRoutines = []Routine{
	{Name: "abs", ID: SysAbs, Code: func(m *Monitor, in *vm.Interp) {
		n := in.Pop()
		if n < 0 {
			n = -n
		}

		in.Push(n)
	}},
	{Name: "min", ID: SysMin, Code: func(m *Monitor, in *vm.Interp) {
		b := in.Pop()
		a := in.Pop()

		if a < b {
			in.Push(a)
		} else {
			in.Push(b)
		}
	}},
	{Name: "max", ID: SysMax, Code: func(m *Monitor, in *vm.Interp) {
		b := in.Pop()
		a := in.Pop()

		if a > b {
			in.Push(a)
		} else {
			in.Push(b)
		}
	}},
	{Name: "pow", ID: SysPow, Code: func(m *Monitor, in *vm.Interp) {
		exp := in.Pop()
		base := in.Pop()

		result := vm.Word(1)
		for i := vm.Word(0); i < exp; i++ {
			result *= base
		}

		in.Push(result)
	}},
	{Name: "sqrt", ID: SysSqrt, Code: func(m *Monitor, in *vm.Interp) {
		x := in.Pop()
		if x < 0 {
			in.Push(0)
			return
		}

		// Largest n with n*n <= x, per the integer sqrt contract.
		var n vm.Word
		for (n+1)*(n+1) <= x {
			n++
		}

		in.Push(n)
	}},
	{Name: "rand", ID: SysRand, Code: func(m *Monitor, in *vm.Interp) {
		in.Push(in.Rand())
	}},
	{Name: "srand", ID: SysSrand, Code: func(m *Monitor, in *vm.Interp) {
		in.Seed(in.Pop())
		in.Push(0)
	}},
}
