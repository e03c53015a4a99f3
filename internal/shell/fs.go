package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/brewos/kernel/internal/vfs"
)

func cmdCd(sh *Shell, argStr string, out io.Writer) int {
	path := argStr
	if path == "" {
		path = "/"
	}

	if !sh.FS.Chdir(path) {
		fmt.Fprintf(out, "cd: %s: no such directory\n", path)
		return 1
	}

	return 0
}

func cmdPwd(sh *Shell, _ string, out io.Writer) int {
	fmt.Fprintln(out, sh.FS.GetCurrentDir())
	return 0
}

func cmdLs(sh *Shell, argStr string, out io.Writer) int {
	path := argStr
	if path == "" {
		path = sh.FS.GetCurrentDir()
	}

	entries, ok := sh.FS.ListDirectory(path)
	if !ok {
		fmt.Fprintf(out, "ls: %s: not a directory\n", path)
		return 1
	}

	for _, e := range entries {
		if e.IsDir() {
			fmt.Fprintf(out, "%s/\n", e.Name)
		} else {
			fmt.Fprintf(out, "%-20s %d\n", e.Name, e.Size)
		}
	}

	return 0
}

func cmdMkdir(sh *Shell, argStr string, out io.Writer) int {
	if argStr == "" {
		fmt.Fprintln(out, "mkdir: missing path")
		return 1
	}

	if !sh.FS.Mkdir(argStr) {
		fmt.Fprintf(out, "mkdir: %s: cannot create\n", argStr)
		return 1
	}

	return 0
}

func cmdRm(sh *Shell, argStr string, out io.Writer) int {
	if argStr == "" {
		fmt.Fprintln(out, "rm: missing path")
		return 1
	}

	if sh.FS.IsDirectory(argStr) {
		if !sh.FS.Rmdir(argStr) {
			fmt.Fprintf(out, "rm: %s: directory not empty\n", argStr)
			return 1
		}

		return 0
	}

	if !sh.FS.Delete(argStr) {
		fmt.Fprintf(out, "rm: %s: no such file\n", argStr)
		return 1
	}

	return 0
}

func cmdEcho(_ *Shell, argStr string, out io.Writer) int {
	fmt.Fprintln(out, argStr)
	return 0
}

func cmdCat(sh *Shell, argStr string, out io.Writer) int {
	if argStr == "" {
		fmt.Fprintln(out, "cat: missing path")
		return 1
	}

	data, ok := readFile(sh, argStr)
	if !ok {
		fmt.Fprintf(out, "cat: %s: no such file\n", argStr)
		return 1
	}

	out.Write(data)

	return 0
}

func cmdTouch(sh *Shell, argStr string, out io.Writer) int {
	if argStr == "" {
		fmt.Fprintln(out, "touch: missing path")
		return 1
	}

	if sh.FS.Exists(argStr) {
		return 0
	}

	h, ok := sh.FS.Open(argStr, vfs.ModeWrite)
	if !ok {
		fmt.Fprintf(out, "touch: %s: cannot create\n", argStr)
		return 1
	}

	_ = h

	return 0
}

func cmdCp(sh *Shell, argStr string, out io.Writer) int {
	args := strings.Fields(argStr)
	if len(args) != 2 {
		fmt.Fprintln(out, "cp: usage: cp src dst")
		return 1
	}

	data, ok := readFile(sh, args[0])
	if !ok {
		fmt.Fprintf(out, "cp: %s: no such file\n", args[0])
		return 1
	}

	if !writeFile(sh, args[1], data) {
		fmt.Fprintf(out, "cp: %s: cannot create\n", args[1])
		return 1
	}

	return 0
}

func cmdMv(sh *Shell, argStr string, out io.Writer) int {
	args := strings.Fields(argStr)
	if len(args) != 2 {
		fmt.Fprintln(out, "mv: usage: mv src dst")
		return 1
	}

	data, ok := readFile(sh, args[0])
	if !ok {
		fmt.Fprintf(out, "mv: %s: no such file\n", args[0])
		return 1
	}

	if !writeFile(sh, args[1], data) {
		fmt.Fprintf(out, "mv: %s: cannot create\n", args[1])
		return 1
	}

	sh.FS.Delete(args[0])

	return 0
}

// readFile reads a whole file to completion, draining cluster by cluster the way internal/vfs's
// Handle is meant to be used.
func readFile(sh *Shell, path string) ([]byte, bool) {
	h, ok := sh.FS.Open(path, vfs.ModeRead)
	if !ok {
		return nil, false
	}

	var data []byte

	buf := make([]byte, 4096)

	for {
		n := sh.FS.Read(h, buf)
		if n == 0 {
			break
		}

		data = append(data, buf[:n]...)
	}

	return data, true
}

func writeFile(sh *Shell, path string, data []byte) bool {
	h, ok := sh.FS.Open(path, vfs.ModeWrite)
	if !ok {
		return false
	}

	sh.FS.Write(h, data)

	return true
}
