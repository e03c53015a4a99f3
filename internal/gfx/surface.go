// Package gfx implements the graphics surface: a framebuffer-shaped back buffer, pixel and rect
// primitives, an 8x8 bitmap font, and dirty-rectangle tracking. It owns no window or compositor
// policy -- see internal/wm for that -- only the pixel-level contract described by the bootloader's
// framebuffer handoff (address, width, height, pitch, 32-bit pixel format).
package gfx

// ARGB packs a 32-bit 0xAARRGGBB pixel, matching the bootloader's advertised pixel format.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// RGB is ARGB with full opacity.
func RGB(r, g, b uint8) uint32 {
	return ARGB(0xff, r, g, b)
}

// Surface owns the back buffer that all drawing operations target and the union dirty-rectangle
// that tracks which pixels have changed since the last Flip.
type Surface struct {
	Width, Height int
	Pitch         int // row stride, in pixels; equal to Width unless the caller pads rows.

	back  []uint32
	dirty Rect
}

// NewSurface allocates a back buffer sized for a framebuffer of the given dimensions. Pitch is
// taken equal to width; callers with a padded framebuffer should set Surface.Pitch after creation.
func NewSurface(width, height int) *Surface {
	return &Surface{
		Width:  width,
		Height: height,
		Pitch:  width,
		back:   make([]uint32, width*height),
	}
}

// PutPixel writes to the back buffer iff (x,y) lies inside the surface. Out-of-bounds writes are
// silently dropped -- there is no fault path in this subsystem, per the kernel's error taxonomy.
func (s *Surface) PutPixel(x, y int, color uint32) {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return
	}

	s.back[y*s.Pitch+x] = color
}

// At returns the back-buffer pixel at (x,y), or 0 if out of bounds.
func (s *Surface) At(x, y int) uint32 {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return 0
	}

	return s.back[y*s.Pitch+x]
}

// FillRect paints a solid rectangle, clipped to the surface.
func (s *Surface) FillRect(x, y, w, h int, color uint32) {
	r := clip(Rect{X: x, Y: y, W: w, H: h}, s.Width, s.Height)
	if r.Empty() {
		return
	}

	for row := r.Y; row < r.Bottom(); row++ {
		base := row * s.Pitch
		for col := r.X; col < r.Right(); col++ {
			s.back[base+col] = color
		}
	}
}

// FillPattern tiles a small pattern (e.g. a 128x128 desktop background) across a rectangle.
func (s *Surface) FillPattern(x, y, w, h int, tile []uint32, tileW, tileH int) {
	if tileW <= 0 || tileH <= 0 || len(tile) < tileW*tileH {
		return
	}

	r := clip(Rect{X: x, Y: y, W: w, H: h}, s.Width, s.Height)
	if r.Empty() {
		return
	}

	for row := r.Y; row < r.Bottom(); row++ {
		ty := (row - y) % tileH
		if ty < 0 {
			ty += tileH
		}

		for col := r.X; col < r.Right(); col++ {
			tx := (col - x) % tileW
			if tx < 0 {
				tx += tileW
			}

			s.back[row*s.Pitch+col] = tile[ty*tileW+tx]
		}
	}
}

// DrawLine draws a Bresenham line between two points.
func (s *Surface) DrawLine(x0, y0, x1, y1 int, color uint32) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1

	if x0 > x1 {
		sx = -1
	}

	if y0 > y1 {
		sy = -1
	}

	err := dx + dy

	for {
		s.PutPixel(x0, y0, color)

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}

		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws the outline of a circle using the midpoint algorithm.
func (s *Surface) DrawCircle(cx, cy, radius int, color uint32) {
	x, y, d := radius, 0, 1-radius

	plot8 := func(x, y int) {
		s.PutPixel(cx+x, cy+y, color)
		s.PutPixel(cx-x, cy+y, color)
		s.PutPixel(cx+x, cy-y, color)
		s.PutPixel(cx-x, cy-y, color)
		s.PutPixel(cx+y, cy+x, color)
		s.PutPixel(cx-y, cy+x, color)
		s.PutPixel(cx+y, cy-x, color)
		s.PutPixel(cx-y, cy-x, color)
	}

	for x >= y {
		plot8(x, y)
		y++

		if d <= 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// FillCircle paints a filled disc by scanning horizontal spans per row.
func (s *Surface) FillCircle(cx, cy, radius int, color uint32) {
	for dy := -radius; dy <= radius; dy++ {
		span := isqrt(radius*radius - dy*dy)
		s.FillRect(cx-span, cy+dy, 2*span+1, 1, color)
	}
}

// MarkDirty clips the given rect to the screen and unions it into the current damage rectangle.
func (s *Surface) MarkDirty(x, y, w, h int) {
	r := clip(Rect{X: x, Y: y, W: w, H: h}, s.Width, s.Height)
	s.dirty = s.dirty.Union(r)
}

// DirtyRect returns the current union damage rectangle.
func (s *Surface) DirtyRect() Rect {
	return s.dirty
}

// ClearDirty resets the damage rectangle to empty. It is idempotent.
func (s *Surface) ClearDirty() {
	s.dirty = Rect{}
}

// Flip copies the entire back buffer to the front buffer using the row pitch, standing in for the
// atomic framebuffer swap a real display controller would perform.
func (s *Surface) Flip(front []uint32) {
	for row := 0; row < s.Height; row++ {
		srcBase := row * s.Pitch
		copy(front[row*s.Width:(row+1)*s.Width], s.back[srcBase:srcBase+s.Width])
	}
}

// Back returns the raw back buffer, primarily for tests and the terminal renderer.
func (s *Surface) Back() []uint32 {
	return s.back
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

// isqrt returns the largest n such that n*n <= x, matching the VM's integer sqrt syscall
// semantics so the two implementations agree on edge cases.
func isqrt(x int) int {
	if x <= 0 {
		return 0
	}

	n := x

	for n*n > x {
		n = (n + x/n) / 2
	}

	for (n+1)*(n+1) <= x {
		n++
	}

	return n
}
