package gfx

import "testing"

func TestPutPixelClipsOutOfBounds(t *testing.T) {
	s := NewSurface(4, 4)

	s.PutPixel(-1, 0, RGB(255, 0, 0))
	s.PutPixel(0, -1, RGB(255, 0, 0))
	s.PutPixel(4, 0, RGB(255, 0, 0))
	s.PutPixel(0, 4, RGB(255, 0, 0))

	for _, px := range s.Back() {
		if px != 0 {
			t.Fatalf("out-of-bounds write leaked into back buffer: %x", px)
		}
	}
}

func TestFillRectClips(t *testing.T) {
	s := NewSurface(4, 4)
	s.FillRect(-2, -2, 4, 4, RGB(0, 255, 0))

	if got := s.At(0, 0); got != RGB(0, 255, 0) {
		t.Errorf("At(0,0) = %x, want green", got)
	}

	if got := s.At(2, 2); got != 0 {
		t.Errorf("At(2,2) = %x, want untouched", got)
	}
}

func TestMarkDirtyMonotone(t *testing.T) {
	s := NewSurface(100, 100)

	s.MarkDirty(10, 10, 5, 5)
	first := s.DirtyRect()

	s.MarkDirty(50, 50, 5, 5)
	second := s.DirtyRect()

	if !second.Contains(first) {
		t.Errorf("second dirty rect %+v does not contain first %+v", second, first)
	}

	s.ClearDirty()

	if got := s.DirtyRect(); !got.Empty() {
		t.Errorf("DirtyRect after ClearDirty = %+v, want empty", got)
	}

	s.ClearDirty()

	if got := s.DirtyRect(); !got.Empty() {
		t.Errorf("ClearDirty is not idempotent: %+v", got)
	}
}

func TestFlipCopiesBackBuffer(t *testing.T) {
	s := NewSurface(2, 2)
	s.PutPixel(0, 0, RGB(1, 2, 3))
	s.PutPixel(1, 1, RGB(4, 5, 6))

	front := make([]uint32, 4)
	s.Flip(front)

	if front[0] != RGB(1, 2, 3) || front[3] != RGB(4, 5, 6) {
		t.Errorf("flip mismatch: %v", front)
	}
}

func TestDrawCharProducesPixels(t *testing.T) {
	s := NewSurface(8, 8)
	s.DrawChar(0, 0, 'A', RGB(255, 255, 255))

	var lit int

	for _, px := range s.Back() {
		if px != 0 {
			lit++
		}
	}

	if lit == 0 {
		t.Error("DrawChar('A') painted no pixels")
	}
}

func TestIsqrt(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 3: 1, 4: 2, 15: 3, 16: 4, 1000000: 1000}

	for x, want := range cases {
		if got := isqrt(x); got != want {
			t.Errorf("isqrt(%d) = %d, want %d", x, got, want)
		}
	}
}
