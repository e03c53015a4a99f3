// Command brewos boots the simulated kernel: it wires every subsystem via internal/kernel.New,
// attaches the host terminal as the console, and drives the boot loop until shutdown, reboot, or
// the host signals termination. This is the runtime counterpart to brewctl, the host-side dev
// tool that compiles and runs executables outside a booted machine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brewos/kernel/internal/kernel"
	"github.com/brewos/kernel/internal/log"
	"github.com/brewos/kernel/internal/tty"
)

func main() {
	logger := log.NewFormattedLogger(os.Stderr)
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	machine := kernel.New(kernel.DefaultBootInfo())

	console, err := tty.NewConsole(os.Stdin, os.Stdout, os.Stderr)

	switch {
	case err == nil:
		defer console.Restore()

		ctx, cancelCause := context.WithCancelCause(ctx)
		defer cancelCause(nil)

		console.Start(ctx, cancelCause)

		kernel.WithConsole(console)(machine)

		if err := machine.RunInteractive(ctx, console, console.Writer()); err != nil {
			logger.Error("machine stopped", "err", err)
			os.Exit(1)
		}
	default:
		logger.Warn("no controlling terminal, running headless", "err", err)

		if err := machine.Run(ctx, os.Stdin, os.Stdout); err != nil {
			logger.Error("machine stopped", "err", err)
			os.Exit(1)
		}
	}

	fmt.Fprintln(os.Stderr, "brewos: shutdown complete")
}
