package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/brewos/kernel/internal/cli"
	"github.com/brewos/kernel/internal/encoding"
	"github.com/brewos/kernel/internal/log"
	"github.com/brewos/kernel/internal/monitor"
	"github.com/brewos/kernel/internal/vm"
)

// Runner is the command that loads a BREWEXE executable and runs it to completion on a bare
// interpreter. Program output goes to standard output; the keyboard is monitor.NullKeyboard, so
// the program never sees a key press.
//
//	brewctl run [-steps N] program.bx
func Runner() cli.Command {
	r := &runner{log: log.DefaultLogger(), maxSteps: 1_000_000, width: 320, height: 240}
	return r
}

type runner struct {
	maxSteps int
	width    int
	height   int
	hex      bool
	log      *log.Logger
}

func (runner) Description() string {
	return "run a BREWEXE executable"
}

func (runner) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `run [-steps N] [-hex] program.bx

Runs a BREWEXE executable to completion (or until the step budget is spent).`)

	return err
}

func (r *runner) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.IntVar(&r.maxSteps, "steps", r.maxSteps, "maximum instructions to execute")
	fs.BoolVar(&r.hex, "hex", false, "decode input as Intel-Hex rather than raw bytes")

	return fs
}

func (r *runner) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("run: missing executable")
		return 1
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("read failed", "file", args[0], "err", err)
		return 1
	}

	data := raw

	if r.hex {
		enc := encoding.HexEncoding{}
		if err := enc.UnmarshalText(raw); err != nil {
			logger.Error("decode failed", "file", args[0], "err", err)
			return 1
		}

		data = enc.Data
	}

	mon := monitor.New(stdout, monitor.NullKeyboard{}, r.width, r.height)
	in := vm.New(vm.WithMonitor(mon))

	if err := in.Load(data); err != nil {
		logger.Error("load failed", "file", args[0], "err", err)
		return 1
	}

	logger.Debug("running", "file", args[0], "steps", r.maxSteps)

	in.Run(r.maxSteps)

	if !in.Halted() {
		logger.Warn("program did not halt within its step budget", "pc", in.PC())
		return 2
	}

	return 0
}
