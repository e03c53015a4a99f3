// Package tty provides the host terminal bridge: it puts the controlling terminal into raw mode,
// feeds keystrokes to the kernel shell as a non-blocking byte source, and exposes the terminal as
// a plain io.Writer for shell output. It is adapted from elsie's tty.Console, generalized from
// single keyboard/display memory-mapped registers to the monitor.KeyboardSource interface the new
// VM's syscall ABI expects.
package tty

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Console is a serial console for the kernel, simulated using Unix terminal I/O[^1].
//
// Keys pressed on the console are buffered non-blocking for the shell to poll, the way a real
// keyboard interrupt handler buffers scancodes for the kernel to drain at its convenience.
//
// [1]: See: tty(4), termios(4).
type Console struct {
	in    *os.File
	out   *term.Terminal
	fd    int
	state *term.State

	keyCh   chan byte
	pending []byte
}

// ErrNoTTY is returned if standard input is not a terminal. In this case, asynchronous I/O is
// not supported by the console.
var ErrNoTTY error = errors.New("console: not a TTY")

// NewConsole creates a Console using the provided streams. If the input stream is not a terminal,
// ErrNoTTY is returned. Callers are responsible for calling [Restore] to return the terminal to its
// initial state.
func NewConsole(sin, sout, serr *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	cons := Console{
		fd:    fd,
		in:    sin,
		out:   term.NewTerminal(sin, ""),
		state: saved,
		keyCh: make(chan byte, 80),
	}

	if err := cons.setTerminalParams(1, 0); err != nil {
		return nil, err
	}

	return &cons, nil
}

// Start launches the background reader that copies terminal bytes into the console's non-blocking
// key buffer until ctx is cancelled.
func (c *Console) Start(ctx context.Context, cancel context.CancelCauseFunc) {
	go c.readTerminal(ctx, cancel)
}

// Hit reports whether a byte is waiting, implementing monitor.KeyboardSource.
func (c *Console) Hit() bool {
	if len(c.pending) > 0 {
		return true
	}

	select {
	case b := <-c.keyCh:
		c.pending = append(c.pending, b)
		return true
	default:
		return false
	}
}

// Read consumes one waiting byte, or returns 0 if none is waiting, implementing
// monitor.KeyboardSource.
func (c *Console) Read() byte {
	if !c.Hit() {
		return 0
	}

	b := c.pending[0]
	c.pending = c.pending[1:]

	return b
}

// Press injects a key press into the input stream, for tests that can't drive a real terminal.
func (c *Console) Press(key byte) {
	c.keyCh <- key
}

// Writer returns an io.Writer that writes to the terminal.
func (c *Console) Writer() *term.Terminal {
	return c.out
}

// Restore returns the terminal to its initial state and cancels in-progress reads.
func (c *Console) Restore() {
	_ = os.Stdin.SetReadDeadline(time.Now())
	_ = term.Restore(c.fd, c.state)
}

func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, true)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return err
	}

	_ = os.Stdin.SetReadDeadline(time.Time{})

	return nil
}

// readTerminal reads bytes from the terminal and writes them to the key channel until the context
// is cancelled. If reading from the terminal fails, the cancel is called.
func (c *Console) readTerminal(ctx context.Context, cancel context.CancelCauseFunc) {
	buf := bufio.NewReader(c.in)

	_ = syscall.SetNonblock(c.fd, false)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		b, err := buf.ReadByte()
		if err != nil {
			cancel(err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case c.keyCh <- b:
		}
	}
}
