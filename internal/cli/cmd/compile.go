package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/brewos/kernel/internal/cli"
	"github.com/brewos/kernel/internal/compiler"
	"github.com/brewos/kernel/internal/log"
)

// Compiler is the command that translates the kernel's C-like source language into a BREWEXE
// executable, the host-side counterpart to internal/shell's "cc" builtin.
//
//	brewctl compile -o a.bx FILE.c
func Compiler() cli.Command {
	return new(compile)
}

type compile struct {
	debug  bool
	output string
}

func (compile) Description() string {
	return "compile source code into a BREWEXE executable"
}

func (compile) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `compile [-o file.bx] file.c

Compile source into a BREWEXE executable.`)

	return err
}

func (c *compile) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
	fs.StringVar(&c.output, "o", "a.bx", "output `filename`")

	return fs
}

func (c *compile) Run(ctx context.Context, args []string, out io.Writer, logger *log.Logger) int {
	if c.debug {
		log.LogLevel.Set(log.Debug)
	}

	if len(args) == 0 {
		logger.Error("compile: missing source file")
		return 1
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("read failed", "file", args[0], "err", err)
		return 1
	}

	program, err := compiler.Compile(string(source))
	if err != nil {
		logger.Error("compile error", "err", err)
		return 1
	}

	if err := os.WriteFile(c.output, program, 0o644); err != nil {
		logger.Error("write failed", "file", c.output, "err", err)
		return 1
	}

	logger.Debug("compiled", "in", args[0], "out", c.output, "bytes", len(program))

	return 0
}
