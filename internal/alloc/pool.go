// Package alloc implements the kernel's dynamic memory allocator: a first-fit byte pool over a
// sorted-by-address block list, with stats and overlap validation. It is grounded on
// original_source/memory_manager.c, translated from a fixed MAX_ALLOCATIONS array plus a linear
// find_free_space scan into a Go slice kept sorted by address -- the scan and non-overlap
// invariants are unchanged, only the storage is idiomatic.
package alloc

import (
	"fmt"
	"sort"

	"github.com/brewos/kernel/internal/log"
)

// block describes one allocated region of the pool. Free space is never represented explicitly; it
// is derived by subtracting the union of blocks from the pool, exactly as spec.md's invariant
// requires.
type block struct {
	base int
	size int
	id   uint32
	tick uint64
}

// Pool is a byte-addressable memory pool with first-fit allocation.
type Pool struct {
	total  int
	blocks []block // sorted by base, ascending.

	nextID uint32
	tick   uint64
	peak   int

	log *log.Logger
}

// NewPool creates a pool of the given size in bytes.
func NewPool(size int) *Pool {
	return &Pool{
		total: size,
		log:   log.DefaultLogger(),
	}
}

// Tick advances the pool's internal clock, used to stamp allocations for diagnostics. Callers
// typically wire this to the kernel's ~60 Hz timer tick.
func (p *Pool) Tick() {
	p.tick++
}

// Alloc returns the base address of a zeroed region of exactly size bytes, or -1 (this package's
// analogue of a null pointer) if no contiguous free region exists. size == 0 always yields -1, per
// spec.md.
func (p *Pool) Alloc(size int) int {
	if size <= 0 {
		return -1
	}

	base, ok := p.findFree(size)
	if !ok {
		p.log.Debug("alloc: out of memory", "size", size)
		return -1
	}

	b := block{base: base, size: size, id: p.nextID, tick: p.tick}
	p.nextID++

	idx := sort.Search(len(p.blocks), func(i int) bool { return p.blocks[i].base >= base })
	p.blocks = append(p.blocks, block{})
	copy(p.blocks[idx+1:], p.blocks[idx:])
	p.blocks[idx] = b

	if used := p.used(); used > p.peak {
		p.peak = used
	}

	p.log.Debug("allocated", "base", base, "size", size, "id", b.id)

	return base
}

// Free releases the block beginning at base. A null (-1 or unknown) pointer is a no-op, per
// spec.md's error taxonomy -- there is no way to signal "double free" or "bad pointer" here.
func (p *Pool) Free(base int) {
	if base < 0 {
		return
	}

	for i, b := range p.blocks {
		if b.base == base {
			p.blocks = append(p.blocks[:i], p.blocks[i+1:]...)
			p.log.Debug("freed", "base", base, "id", b.id)

			return
		}
	}
}

// Realloc grows or shrinks a block. If the existing block is already large enough, it is returned
// unchanged; otherwise a fresh block is allocated and the old block is freed. This package only
// tracks address ranges, not byte contents: copying the returned copyLen overlapping bytes is left
// to the caller.
func (p *Pool) Realloc(base, newSize int) (newBase int, copyLen int, ok bool) {
	if base < 0 {
		fresh := p.Alloc(newSize)
		return fresh, 0, fresh >= 0
	}

	old, found := p.find(base)
	if !found {
		return -1, 0, false
	}

	if old.size >= newSize {
		return base, min(old.size, newSize), true
	}

	fresh := p.Alloc(newSize)
	if fresh < 0 {
		return -1, 0, false
	}

	n := old.size
	if newSize < n {
		n = newSize
	}

	p.Free(base)

	return fresh, n, true
}

func (p *Pool) find(base int) (block, bool) {
	for _, b := range p.blocks {
		if b.base == base {
			return b, true
		}
	}

	return block{}, false
}

// findFree scans the pool, in address order, for the first gap of at least size bytes between (or
// around) allocated blocks -- first-fit, exactly as original_source/memory_manager.c's
// find_free_space.
func (p *Pool) findFree(size int) (int, bool) {
	offset := 0

	for _, b := range p.blocks {
		if b.base-offset >= size {
			return offset, true
		}

		if b.base+b.size > offset {
			offset = b.base + b.size
		}
	}

	if p.total-offset >= size {
		return offset, true
	}

	return 0, false
}

func (p *Pool) used() int {
	sum := 0
	for _, b := range p.blocks {
		sum += b.size
	}

	return sum
}

// Stats reports the pool's current utilization, mirroring original_source's MemStats struct.
type Stats struct {
	Total                int
	Used                 int
	Available            int
	AllocatedBlocks      int
	FreeBlocks           int
	LargestFree          int
	SmallestFree         int
	FragmentationPercent int
	Peak                 int
}

// Stats computes a snapshot of pool utilization. Fragmentation is the sum of gaps between
// allocated blocks (sorted by address), as a percentage of total allocated bytes -- spec.md's
// definition, verbatim.
func (p *Pool) Stats() Stats {
	used := p.used()

	s := Stats{
		Total:           p.total,
		Used:            used,
		Available:       p.total - used,
		AllocatedBlocks: len(p.blocks),
		Peak:            p.peak,
	}

	free := p.freeGaps()
	s.FreeBlocks = len(free)

	for _, g := range free {
		if g > s.LargestFree {
			s.LargestFree = g
		}
	}

	if len(free) > 0 {
		s.SmallestFree = free[0]
		for _, g := range free {
			if g < s.SmallestFree {
				s.SmallestFree = g
			}
		}
	}

	if used > 0 {
		gapSum := 0
		for i := 1; i < len(p.blocks); i++ {
			prev := p.blocks[i-1]
			gapSum += p.blocks[i].base - (prev.base + prev.size)
		}

		s.FragmentationPercent = gapSum * 100 / used
	}

	return s
}

// freeGaps returns the size of every free gap between (and around) allocated blocks, in address
// order.
func (p *Pool) freeGaps() []int {
	var gaps []int

	offset := 0

	for _, b := range p.blocks {
		if gap := b.base - offset; gap > 0 {
			gaps = append(gaps, gap)
		}

		offset = b.base + b.size
	}

	if gap := p.total - offset; gap > 0 {
		gaps = append(gaps, gap)
	}

	return gaps
}

// Validate reports every pair of allocated blocks whose ranges overlap. A correctly operating pool
// always returns an empty slice; a non-empty result indicates a bug in Alloc/Free bookkeeping.
func (p *Pool) Validate() []string {
	var problems []string

	for i := 0; i < len(p.blocks); i++ {
		for j := i + 1; j < len(p.blocks); j++ {
			a, b := p.blocks[i], p.blocks[j]
			if a.base < b.base+b.size && b.base < a.base+a.size {
				problems = append(problems, fmt.Sprintf(
					"overlap: [%d,%d) and [%d,%d)", a.base, a.base+a.size, b.base, b.base+b.size))
			}
		}
	}

	return problems
}
