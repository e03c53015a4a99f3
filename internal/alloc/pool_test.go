package alloc

import "testing"

func TestAllocZeroSizeFails(t *testing.T) {
	p := NewPool(1024)
	if got := p.Alloc(0); got != -1 {
		t.Errorf("Alloc(0) = %d, want -1", got)
	}
}

func TestAllocNonOverlapping(t *testing.T) {
	p := NewPool(1024)

	a := p.Alloc(100)
	b := p.Alloc(200)
	c := p.Alloc(50)

	if a < 0 || b < 0 || c < 0 {
		t.Fatalf("allocations failed: a=%d b=%d c=%d", a, b, c)
	}

	if problems := p.Validate(); len(problems) != 0 {
		t.Errorf("Validate found overlaps: %v", problems)
	}

	stats := p.Stats()
	if stats.Used != 350 {
		t.Errorf("used = %d, want 350", stats.Used)
	}

	if stats.Used+stats.Available != stats.Total {
		t.Errorf("used+available = %d, want total %d", stats.Used+stats.Available, stats.Total)
	}
}

func TestFreeThenReuse(t *testing.T) {
	p := NewPool(256)

	a := p.Alloc(128)
	p.Free(a)

	b := p.Alloc(128)
	if b != a {
		t.Errorf("expected freed space to be reused at %d, got %d", a, b)
	}
}

func TestFreeUnknownPointerIsNoOp(t *testing.T) {
	p := NewPool(256)
	p.Alloc(64)

	before := p.Stats()
	p.Free(9999)
	after := p.Stats()

	if before != after {
		t.Errorf("Free of unknown pointer changed stats: %+v -> %+v", before, after)
	}
}

func TestOutOfMemoryReturnsNull(t *testing.T) {
	p := NewPool(64)

	if got := p.Alloc(128); got != -1 {
		t.Errorf("Alloc beyond pool size = %d, want -1", got)
	}
}

// TestFragmentation mirrors scenario S7: allocate 10x256KB, free every other one, and expect 5
// live blocks with at least one 256KB free gap.
func TestFragmentation(t *testing.T) {
	const chunk = 256 * 1024

	p := NewPool(10 * chunk)

	bases := make([]int, 10)
	for i := range bases {
		bases[i] = p.Alloc(chunk)
		if bases[i] < 0 {
			t.Fatalf("allocation %d failed", i)
		}
	}

	for i := 0; i < 10; i += 2 {
		p.Free(bases[i])
	}

	stats := p.Stats()
	if stats.AllocatedBlocks != 5 {
		t.Errorf("allocated blocks = %d, want 5", stats.AllocatedBlocks)
	}

	if stats.LargestFree < chunk {
		t.Errorf("largest free block = %d, want >= %d", stats.LargestFree, chunk)
	}
}

func TestReallocGrowsAndShrinks(t *testing.T) {
	p := NewPool(1024)

	base := p.Alloc(100)

	same, n, ok := p.Realloc(base, 50)
	if !ok || same != base || n != 50 {
		t.Errorf("shrink realloc = (%d,%d,%v), want (%d,50,true)", same, n, ok, base)
	}

	grown, n, ok := p.Realloc(base, 300)
	if !ok {
		t.Fatal("grow realloc failed")
	}

	if n != 100 {
		t.Errorf("copy length = %d, want 100", n)
	}

	if problems := p.Validate(); len(problems) != 0 {
		t.Errorf("validate found overlaps after realloc: %v", problems)
	}

	_ = grown
}
