package gfx

// rect.go has the dirty-rectangle arithmetic. It is kept pure and free of the Surface type so it is
// trivial to property-test: union is associative and commutative, and any rectangle unioned into
// the zero Rect yields that rectangle back.

// Rect is an axis-aligned rectangle in screen coordinates. The zero Rect is empty and is the
// identity element of Union.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Union returns the smallest rectangle containing both r and s. An empty operand is ignored so
// that repeated unioning into a zero-valued accumulator behaves as callers expect.
func (r Rect) Union(s Rect) Rect {
	switch {
	case r.Empty():
		return s
	case s.Empty():
		return r
	}

	x0 := min(r.X, s.X)
	y0 := min(r.Y, s.Y)
	x1 := max(r.Right(), s.Right())
	y1 := max(r.Bottom(), s.Bottom())

	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether s is entirely within r.
func (r Rect) Contains(s Rect) bool {
	if s.Empty() {
		return true
	}

	return s.X >= r.X && s.Y >= r.Y && s.Right() <= r.Right() && s.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether (x,y) falls within r.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// clip returns r intersected with the screen bounds [0,w) x [0,h).
func clip(r Rect, w, h int) Rect {
	x0 := max(r.X, 0)
	y0 := max(r.Y, 0)
	x1 := min(r.Right(), w)
	y1 := min(r.Bottom(), h)

	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}

	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
