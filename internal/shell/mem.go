package shell

import (
	"fmt"
	"io"
)

// memtestBlockSize and memtestBlockCount reproduce S7's scenario verbatim: alloc 10x256KB, free
// the even indices, and expect 5 blocks remaining with a largest free gap of at least 256 KB.
const (
	memtestBlockSize  = 256 * 1024
	memtestBlockCount = 10
)

func cmdMeminfo(sh *Shell, _ string, out io.Writer) int {
	s := sh.Pool.Stats()

	fmt.Fprintf(out, "total:        %d\n", s.Total)
	fmt.Fprintf(out, "used:         %d\n", s.Used)
	fmt.Fprintf(out, "available:    %d\n", s.Available)
	fmt.Fprintf(out, "blocks:       %d allocated, %d free\n", s.AllocatedBlocks, s.FreeBlocks)
	fmt.Fprintf(out, "largest free: %d\n", s.LargestFree)
	fmt.Fprintf(out, "smallest free:%d\n", s.SmallestFree)
	fmt.Fprintf(out, "fragmentation:%d%%\n", s.FragmentationPercent)
	fmt.Fprintf(out, "peak used:    %d\n", s.Peak)

	return 0
}

func cmdMemtest(sh *Shell, _ string, out io.Writer) int {
	bases := make([]int, memtestBlockCount)

	for i := range bases {
		bases[i] = sh.Pool.Alloc(memtestBlockSize)
	}

	for i := 0; i < memtestBlockCount; i += 2 {
		sh.Pool.Free(bases[i])
	}

	s := sh.Pool.Stats()
	fmt.Fprintf(out, "allocated_blocks=%d largest_free_block=%d\n", s.AllocatedBlocks, s.LargestFree)

	return 0
}

func cmdMemvalid(sh *Shell, _ string, out io.Writer) int {
	problems := sh.Pool.Validate()
	if len(problems) == 0 {
		fmt.Fprintln(out, "ok")
		return 0
	}

	for _, p := range problems {
		fmt.Fprintln(out, p)
	}

	return 1
}
