package monitor

import "github.com/brewos/kernel/internal/vm"

var memoryRoutines = []Routine{
	{Name: "malloc", ID: SysMalloc, Code: func(m *Monitor, in *vm.Interp) {
		size := in.Pop()
		in.Push(in.Alloc(size))
	}},
	{Name: "free", ID: SysFree, Code: func(m *Monitor, in *vm.Interp) {
		in.Pop() // bump allocator never frees.
		in.Push(0)
	}},
	{Name: "peek", ID: SysPeek, Code: func(m *Monitor, in *vm.Interp) {
		addr := in.Pop()
		in.Push(in.Mem.Load32(addr))
	}},
	{Name: "poke", ID: SysPoke, Code: func(m *Monitor, in *vm.Interp) {
		value := in.Pop()
		addr := in.Pop()
		in.Mem.Store32(addr, value)
		in.Push(0)
	}},
	{Name: "memset", ID: SysMemset, Code: func(m *Monitor, in *vm.Interp) {
		n := in.Pop()
		value := in.Pop()
		addr := in.Pop()

		buf := in.Mem.Slice(addr, n)
		for i := range buf {
			buf[i] = byte(value)
		}

		in.Push(0)
	}},
	{Name: "memcpy", ID: SysMemcpy, Code: func(m *Monitor, in *vm.Interp) {
		n := in.Pop()
		src := in.Pop()
		dst := in.Pop()

		copy(in.Mem.Slice(dst, n), in.Mem.Slice(src, n))
		in.Push(0)
	}},
	{Name: "memmove", ID: SysMemmove, Code: func(m *Monitor, in *vm.Interp) {
		n := in.Pop()
		src := in.Pop()
		dst := in.Pop()

		srcBuf := in.Mem.Slice(src, n)
		tmp := make([]byte, len(srcBuf))
		copy(tmp, srcBuf)
		copy(in.Mem.Slice(dst, n), tmp)

		in.Push(0)
	}},
}
