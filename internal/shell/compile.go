package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/brewos/kernel/internal/compiler"
)

// binExt is appended to a compiled source's base name when no explicit output path is given.
const binExt = ".bx"

// cmdCompile implements the "cc"/"compc" builtin: read C-like source from the filesystem, compile
// it to a BREWEXE image, and write the result next to the source (or to an explicit second
// argument). Per spec.md §7's compile-error rule, a failed compile prints the diagnostic and
// leaves no output file.
func cmdCompile(sh *Shell, argStr string, out io.Writer) int {
	args := strings.Fields(argStr)
	if len(args) < 1 {
		fmt.Fprintln(out, "cc: usage: cc source.c [output]")
		return 1
	}

	src := args[0]

	dst := args[0]
	if idx := strings.LastIndex(dst, "."); idx >= 0 {
		dst = dst[:idx]
	}

	dst += binExt

	if len(args) >= 2 {
		dst = args[1]
	}

	source, ok := readFile(sh, src)
	if !ok {
		fmt.Fprintf(out, "cc: %s: no such file\n", src)
		return 1
	}

	program, err := compiler.Compile(string(source))
	if err != nil {
		fmt.Fprintf(out, "cc: %s\n", err)
		return 1
	}

	if !writeFile(sh, dst, program) {
		fmt.Fprintf(out, "cc: %s: cannot create\n", dst)
		return 1
	}

	return 0
}
