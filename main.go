// brewctl is the host-side command-line interface to the brewos kernel simulator's development
// tools: compiling, running, and checking images without booting the kernel itself.
package main

import (
	"context"
	"os"

	"github.com/brewos/kernel/internal/cli"
	"github.com/brewos/kernel/internal/cli/cmd"
)

var (
	commands = []cli.Command{
		cmd.Compiler(),
		cmd.Runner(),
		cmd.Fsck(),
	}
)

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
