// Package shell implements the kernel's in-world command surface: a tokenizer, output
// redirection, the UDPSEND pipe, and the built-in command table, grounded on
// original_source/cmd.c. Its Command/Run shape is modeled on internal/cli.Command, but a shell
// command takes a raw argument string rather than host flags, per spec.md §6's tokenization rule:
// "split on the first whitespace into command and argument string".
package shell

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/brewos/kernel/internal/alloc"
	"github.com/brewos/kernel/internal/e1000"
	"github.com/brewos/kernel/internal/log"
	"github.com/brewos/kernel/internal/monitor"
	"github.com/brewos/kernel/internal/netstack"
	"github.com/brewos/kernel/internal/pci"
	"github.com/brewos/kernel/internal/vfs"
)

// appsDir is where a bare command name falls back to if it isn't in the static builtin table, per
// spec.md §6's lookup order.
const appsDir = "/Apps/"

// udpsendPort is the shell's fixed ephemeral source port for udpsend/udptest -- spec.md is silent
// on port allocation for shell-initiated sends, and a fixed value keeps udptest's loopback
// round-trip deterministic.
const udpsendPort = 50000

// maxUDPDatagram bounds how much of a piped command's captured output goes out per datagram, per
// spec.md §6's "sent as one or more ≤ 512-byte UDP datagrams" pipe rule.
const maxUDPDatagram = 512

// builtin is one command's native implementation. It receives the raw argument string (everything
// after the first whitespace) rather than a pre-split []string, since some builtins (echo, cowsay)
// want the whole remainder verbatim.
type builtin func(sh *Shell, argStr string, out io.Writer) int

// Shell is the in-world OS shell: the subsystem handles it dispatches against, plus bookkeeping
// for the "netinit" gate and the halted/reboot flags the boot loop polls.
type Shell struct {
	FS   *vfs.FS
	Pool *alloc.Pool
	PCI  *pci.Bus
	NIC  *e1000.NIC
	Net  *netstack.Stack

	// Keyboard is wired into any VM program the shell runs, so a "./program" or "/Apps/x" dispatch
	// can read console input through the same monitor.KeyboardSource the kernel's own console
	// uses. Nil (monitor.NullKeyboard) is fine for host-side tests.
	Keyboard monitor.KeyboardSource

	// Width/Height are the dimensions a dispatched VM program's monitor reports via
	// get_width/get_height; graphics syscalls do not clip against them.
	Width, Height int

	Clock func() time.Time

	bootedAt  time.Time
	netReady  bool
	halted    bool
	rebooting bool

	builtins map[string]builtin

	log *log.Logger
}

// New creates a shell wired to the given subsystems, with the full builtin table installed.
func New(fs *vfs.FS, pool *alloc.Pool, bus *pci.Bus, nic *e1000.NIC, net *netstack.Stack) *Shell {
	sh := &Shell{
		FS:       fs,
		Pool:     pool,
		PCI:      bus,
		NIC:      nic,
		Net:      net,
		Keyboard: monitor.NullKeyboard{},
		Width:    320,
		Height:   240,
		Clock:    time.Now,
		bootedAt: time.Now(),
		log:      log.DefaultLogger(),
	}

	sh.builtins = map[string]builtin{
		"cd":    cmdCd,
		"pwd":   cmdPwd,
		"ls":    cmdLs,
		"mkdir": cmdMkdir,
		"rm":    cmdRm,
		"echo":  cmdEcho,
		"cat":   cmdCat,
		"touch": cmdTouch,
		"cp":    cmdCp,
		"mv":    cmdMv,

		"meminfo":  cmdMeminfo,
		"memtest":  cmdMemtest,
		"memvalid": cmdMemvalid,

		"netinit":  cmdNetinit,
		"netinfo":  cmdNetinfo,
		"ipset":    cmdIpset,
		"udpsend":  cmdUdpsend,
		"udptest":  cmdUdptest,
		"ping":     cmdPing,
		"dns":      cmdDNS,
		"httpget":  cmdHTTPGet,
		"pcilist":  cmdPcilist,
		"msgrc":    cmdMsgrc,

		"cc":    cmdCompile,
		"compc": cmdCompile,

		"help":     cmdHelp,
		"date":     cmdDate,
		"clear":    cmdClear,
		"uptime":   cmdUptime,
		"shutdown": cmdShutdown,
		"reboot":   cmdReboot,
		"cowsay":   cmdCowsay,
		"beep":     cmdBeep,
	}

	return sh
}

// Halted reports whether a "shutdown" command has run; the boot loop's process_input/
// wait_for_interrupt cycle stops once this is true.
func (sh *Shell) Halted() bool { return sh.halted }

// Rebooting reports whether a "reboot" command has run.
func (sh *Shell) Rebooting() bool { return sh.rebooting }

// Run tokenizes and executes one command line, handling redirection and the UDPSEND pipe per
// spec.md §6, and writes (or captures and redirects/sends) its output. It returns the command's
// exit status, mirroring internal/cli.Command.Run's (ctx, args, out, logger) shape. ctx is checked
// once before a VM program the line dispatches to is loaded; the running program is bounded by
// the maxSteps step budget, not by ctx.
func (sh *Shell) Run(ctx context.Context, line string, out io.Writer) int {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return 0
	}

	if left, ip, port, ok := splitUDPSENDPipe(line); ok {
		var buf bytes.Buffer

		status := sh.dispatch(ctx, left, &buf)
		sh.sendCaptured(buf.Bytes(), ip, port)

		return status
	}

	if cmdLine, path, mode, ok := splitRedirect(line); ok {
		var buf bytes.Buffer

		status := sh.dispatch(ctx, cmdLine, &buf)
		sh.writeRedirected(path, mode, buf.Bytes())

		return status
	}

	return sh.dispatch(ctx, line, out)
}

// redirectMode selects how writeRedirected opens its target file.
type redirectMode int

const (
	redirectOverwrite redirectMode = iota
	redirectAppend
)

// splitRedirect looks for a trailing "> path" or ">> path" and, if found, returns the command
// portion, the target path, and the mode.
func splitRedirect(line string) (cmdLine, path string, mode redirectMode, ok bool) {
	if idx := strings.LastIndex(line, ">>"); idx >= 0 {
		target := strings.TrimSpace(line[idx+2:])
		if target != "" {
			return strings.TrimSpace(line[:idx]), target, redirectAppend, true
		}
	}

	if idx := strings.LastIndex(line, ">"); idx >= 0 {
		target := strings.TrimSpace(line[idx+1:])
		if target != "" {
			return strings.TrimSpace(line[:idx]), target, redirectOverwrite, true
		}
	}

	return line, "", 0, false
}

// splitUDPSENDPipe looks for "|| UDPSEND ip port" at the end of the line, per spec.md §6's pipe
// rule: "supported only when the right side is UDPSEND ip port".
func splitUDPSENDPipe(line string) (cmdLine string, ip netstack.IPv4, port uint16, ok bool) {
	idx := strings.Index(line, "||")
	if idx < 0 {
		return line, netstack.IPv4{}, 0, false
	}

	right := strings.Fields(strings.TrimSpace(line[idx+2:]))
	if len(right) != 3 || !strings.EqualFold(right[0], "UDPSEND") {
		return line, netstack.IPv4{}, 0, false
	}

	addr, addrOK := parseIPv4(right[1])
	p, portOK := parsePort(right[2])

	if !addrOK || !portOK {
		return line, netstack.IPv4{}, 0, false
	}

	return strings.TrimSpace(line[:idx]), addr, p, true
}

func (sh *Shell) writeRedirected(path string, mode redirectMode, data []byte) {
	m := vfs.ModeWrite
	if mode == redirectAppend {
		m = vfs.ModeAppend
	}

	h, ok := sh.FS.Open(path, m)
	if !ok {
		sh.log.Debug("shell: redirect open failed", log.String("path", path))
		return
	}

	sh.FS.Write(h, data)
}

func (sh *Shell) sendCaptured(data []byte, ip netstack.IPv4, port uint16) {
	if !sh.netReady {
		return
	}

	for len(data) > 0 {
		n := len(data)
		if n > maxUDPDatagram {
			n = maxUDPDatagram
		}

		sh.Net.SendUDP(ip, udpsendPort, port, data[:n])
		data = data[n:]
	}
}

// dispatch splits line into a command name and its raw argument string, and runs it via the
// builtin table, the ./ VM-executable convention, or the /Apps/ fallback, in that order.
func (sh *Shell) dispatch(ctx context.Context, line string, out io.Writer) int {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0
	}

	name, argStr, _ := strings.Cut(line, " ")
	argStr = strings.TrimSpace(argStr)

	if strings.HasPrefix(name, "./") {
		return sh.runProgram(ctx, strings.TrimPrefix(name, "./"), argStr, out)
	}

	if fn, ok := sh.builtins[name]; ok {
		return fn(sh, argStr, out)
	}

	if sh.FS.Exists(appsDir + name) {
		return sh.runProgram(ctx, appsDir+name, argStr, out)
	}

	io.WriteString(out, name+": command not found\n")

	return 1
}
