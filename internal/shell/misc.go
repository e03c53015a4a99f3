package shell

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// cmdHelp lists every installed builtin name, sorted, one per line.
func cmdHelp(sh *Shell, _ string, out io.Writer) int {
	names := make([]string, 0, len(sh.builtins))
	for name := range sh.builtins {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintln(out, name)
	}

	return 0
}

func cmdDate(sh *Shell, _ string, out io.Writer) int {
	fmt.Fprintln(out, sh.Clock().Format("Mon Jan  2 15:04:05 2006"))
	return 0
}

// cmdClear emits the same ANSI clear-screen sequence a host terminal honors; a dispatched VM
// program's own monitor.New screen clears through its "cls" syscall instead.
func cmdClear(_ *Shell, _ string, out io.Writer) int {
	io.WriteString(out, "\x1b[2J\x1b[H")
	return 0
}

func cmdUptime(sh *Shell, _ string, out io.Writer) int {
	fmt.Fprintln(out, sh.Clock().Sub(sh.bootedAt).Round(time.Second))
	return 0
}

func cmdShutdown(sh *Shell, _ string, out io.Writer) int {
	fmt.Fprintln(out, "shutting down...")
	sh.halted = true

	return 0
}

func cmdReboot(sh *Shell, _ string, out io.Writer) int {
	fmt.Fprintln(out, "rebooting...")
	sh.rebooting = true

	return 0
}

func cmdCowsay(_ *Shell, argStr string, out io.Writer) int {
	msg := argStr
	if msg == "" {
		msg = "moo"
	}

	border := ""
	for range msg {
		border += "-"
	}

	fmt.Fprintf(out, " %s\n< %s >\n %s\n", border, msg, border)
	fmt.Fprintln(out, `        \   ^__^`)
	fmt.Fprintln(out, `         \  (oo)\_______`)
	fmt.Fprintln(out, `            (__)\       )\/\`)
	fmt.Fprintln(out, `                ||----w |`)
	fmt.Fprintln(out, `                ||     ||`)

	return 0
}

func cmdBeep(_ *Shell, _ string, out io.Writer) int {
	io.WriteString(out, "\a")
	return 0
}
