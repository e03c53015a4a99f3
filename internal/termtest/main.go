// Termtest is a testing tool for Unix terminal I/O. Lacking simple PTY support, running this tool
// manually is easier than writing automated tests.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brewos/kernel/internal/log"
	"github.com/brewos/kernel/internal/tty"
)

var logger = log.DefaultLogger()

func main() {
	ctx := context.Background()
	ctx, cause := context.WithCancelCause(ctx)

	console, err := tty.NewConsole(os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	defer console.Restore()

	console.Start(ctx, cause)

	poll := time.Tick(100 * time.Millisecond)
	timeout := time.After(5 * time.Second)

	logger.Info("Polling keyboard. Type keys.")
	fmt.Fprintln(console.Writer())

	for {
		select {
		case <-poll:
			if console.Hit() {
				fmt.Fprintf(console.Writer(), "%c", console.Read())
			}
		case <-timeout:
			return
		case <-ctx.Done():
			if err := context.Cause(ctx); err != nil {
				logger.Error(err.Error())
			} else {
				logger.Info("Done")
			}

			return
		}
	}
}
