package shell

import (
	"context"
	"fmt"
	"io"

	"github.com/brewos/kernel/internal/monitor"
	"github.com/brewos/kernel/internal/vfs"
	"github.com/brewos/kernel/internal/vm"
)

// maxSteps bounds how long a dispatched VM program may run before the shell gives up on it, the
// runaway-loop backstop vm.Interp.Run itself documents as a host-caller concern.
const maxSteps = 1_000_000

// runProgram reads path as a BREWEXE executable from the filesystem and runs it to completion (or
// until maxSteps), wiring its syscalls to the shell's keyboard and screen dimensions. This is the
// "./name" and "/Apps/name" dispatch spec.md §6 describes.
func (sh *Shell) runProgram(ctx context.Context, path, _ string, out io.Writer) int {
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(out, "shell:", err)
		return 1
	}

	h, ok := sh.FS.Open(path, vfs.ModeRead)
	if !ok {
		fmt.Fprintf(out, "%s: not found\n", path)
		return 1
	}

	data := make([]byte, 0, 4096)
	buf := make([]byte, 4096)

	for {
		n := sh.FS.Read(h, buf)
		if n == 0 {
			break
		}

		data = append(data, buf[:n]...)
	}

	mon := monitor.New(out, sh.Keyboard, sh.Width, sh.Height)
	in := vm.New(vm.WithMonitor(mon))

	if err := in.Load(data); err != nil {
		fmt.Fprintln(out, "shell:", err)
		return 1
	}

	in.Run(maxSteps)

	if !in.Halted() {
		fmt.Fprintln(out, "shell: program did not halt within its step budget")
		return 2
	}

	return 0
}
