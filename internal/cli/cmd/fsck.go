package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/brewos/kernel/internal/cli"
	"github.com/brewos/kernel/internal/log"
	"github.com/brewos/kernel/internal/vfs"
)

// Fsck is the command that walks a freshly created vfs.New() filesystem and reports any entry whose
// cluster chain can't be read back to its declared size, the host-side counterpart to
// internal/shell's "memvalid" allocator check. It loads no image: positional arguments are
// ignored.
//
//	brewctl fsck [-quiet]
func Fsck() cli.Command {
	return new(fsck)
}

type fsck struct {
	quiet bool
}

func (fsck) Description() string {
	return "check filesystem consistency"
}

func (fsck) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `fsck

Walks the filesystem tree and reports entries that fail to read back.`)

	return err
}

func (f *fsck) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("fsck", flag.ExitOnError)
	fs.BoolVar(&f.quiet, "quiet", false, "only report problems")

	return fs
}

func (f *fsck) Run(ctx context.Context, args []string, out io.Writer, logger *log.Logger) int {
	fs := vfs.New()

	problems := f.walk(fs, "/", out)

	if problems == 0 {
		fmt.Fprintln(out, "fsck: ok")
		return 0
	}

	fmt.Fprintf(out, "fsck: %d problem(s)\n", problems)

	return 1
}

func (f *fsck) walk(fs *vfs.FS, dir string, out io.Writer) int {
	entries, ok := fs.ListDirectory(dir)
	if !ok {
		fmt.Fprintf(out, "fsck: %s: cannot list\n", dir)
		return 1
	}

	problems := 0

	for _, e := range entries {
		path := dir
		if path != "/" {
			path += "/"
		}

		path += e.Name

		if e.IsDir() {
			problems += f.walk(fs, path, out)
			continue
		}

		h, ok := fs.Open(path, vfs.ModeRead)
		if !ok {
			fmt.Fprintf(out, "fsck: %s: cannot open\n", path)
			problems++

			continue
		}

		read := 0
		buf := make([]byte, vfs.ClusterSize)

		for {
			n := fs.Read(h, buf)
			if n == 0 {
				break
			}

			read += n
		}

		if read != e.Size {
			fmt.Fprintf(out, "fsck: %s: declared size %d, read %d\n", path, e.Size, read)
			problems++
		} else if !f.quiet {
			fmt.Fprintf(out, "fsck: %s: ok (%d bytes)\n", path, read)
		}
	}

	return problems
}
