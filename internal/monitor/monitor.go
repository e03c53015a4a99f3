// Package monitor implements the kernel's syscall dispatch table: the bridge a running bytecode
// program uses to reach the host for I/O, memory, strings, math, and graphics. It is the
// generalization of elsie's Routine/SystemImage/vector-table idiom -- except here a "routine" is
// native Go rather than assembled machine code, since host syscalls are privileged operations with
// no meaningful bytecode encoding of their own.
package monitor

import (
	"io"

	"github.com/brewos/kernel/internal/log"
	"github.com/brewos/kernel/internal/vm"
)

// KeyboardSource is the non-blocking keyboard input a running program polls via kb_hit/getchar.
// The cooperative, single-threaded execution model has no way to block a program on input without
// stalling the whole kernel, so both operations are non-blocking: Hit reports whether a byte is
// waiting, Read consumes one or returns 0.
type KeyboardSource interface {
	Hit() bool
	Read() byte
}

// NullKeyboard never has input waiting. It's the default when a host command runs a program with
// no attached console.
type NullKeyboard struct{}

func (NullKeyboard) Hit() bool  { return false }
func (NullKeyboard) Read() byte { return 0 }

// Routine is one syscall's native implementation: pop its arguments off the interpreter's stack,
// do the work, push a return value (0 for a void syscall, so the compiler's balancing POP always
// has something to discard).
type Routine struct {
	Name string
	ID   vm.Word
	Code func(m *Monitor, in *vm.Interp)
}

// Monitor is the syscall dispatch table plus the host resources (console, screen dimensions) its
// routines need. One Monitor is wired into the Interp that runs a user program.
type Monitor struct {
	Output io.Writer
	Input  KeyboardSource

	Width, Height int

	// Draw is called for every graphics syscall in addition to recording into the VM's overlay
	// list, letting the window manager's own paint pipeline redraw as needed without having to
	// walk the overlay list itself.
	Draw func()

	routines map[vm.Word]Routine
	log      *log.Logger
}

// New creates a dispatch table with the default routine set wired in. width/height are the
// dimensions get_width/get_height report; draw_pixel/draw_rect/draw_line/draw_text do not clip
// against them.
func New(out io.Writer, in KeyboardSource, width, height int) *Monitor {
	if in == nil {
		in = NullKeyboard{}
	}

	m := &Monitor{
		Output: out,
		Input:  in,
		Width:  width,
		Height: height,
		log:    log.DefaultLogger(),
	}

	m.routines = make(map[vm.Word]Routine, len(allRoutines))
	for _, r := range allRoutines {
		m.routines[r.ID] = r
	}

	return m
}

// Dispatch implements vm.Monitor: it looks up id's routine and runs it against in. An unknown
// syscall id is swallowed -- it pushes 0 rather than halting the machine, per the VM's no-fault
// safety rule.
func (m *Monitor) Dispatch(id vm.Word, in *vm.Interp) {
	r, ok := m.routines[id]
	if !ok {
		m.log.Debug("monitor: unknown syscall", log.Any("id", id))
		in.Push(0)

		return
	}

	r.Code(m, in)
}
