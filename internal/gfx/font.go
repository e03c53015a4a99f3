package gfx

import (
	"image"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// fixedOrigin places the glyph's dot at the raster origin so Glyph's returned bounds are directly
// usable as pixel offsets.
var fixedOrigin = fixed.Point26_6{}

// glyphs holds an 8x8 monochrome bitmap per ASCII codepoint 0-127, one bit per column, MSB first,
// top row first. It is built once at package init from golang.org/x/image/font/basicfont's 7x13
// face, cropped to the top-left 8x8 cell -- this system draws fixed-width, non-scaled, non-
// anti-aliased glyphs only (see spec's Non-goals), so the face's hinting/kerning metrics are
// discarded entirely; only the raster shape survives.
var glyphs [128][8]uint8

func init() {
	face := basicfont.Face7x13

	for r := rune(0); r < 128; r++ {
		dr, mask, maskp, _, ok := face.Glyph(fixedOrigin, r)
		if !ok {
			continue
		}

		for row := 0; row < 8; row++ {
			var bits uint8

			for col := 0; col < 8; col++ {
				px := dr.Min.X + col
				py := dr.Min.Y + row

				if !(image.Point{X: px, Y: py}).In(dr) {
					continue
				}

				_, _, _, a := mask.At(maskp.X+(px-dr.Min.X), maskp.Y+(py-dr.Min.Y)).RGBA()
				if a > 0x7fff {
					bits |= 1 << (7 - col)
				}
			}

			glyphs[r][row] = bits
		}
	}
}

// DrawChar paints one 8x8 glyph with its top-left corner at (x,y). Codepoints outside 0-127 and
// control characters with no glyph are drawn as blank cells -- there is no fault path here either.
func (s *Surface) DrawChar(x, y int, ch byte, color uint32) {
	if ch >= 128 {
		return
	}

	bitmap := glyphs[ch]

	for row := 0; row < 8; row++ {
		bits := bitmap[row]
		for col := 0; col < 8; col++ {
			if bits&(1<<(7-col)) != 0 {
				s.PutPixel(x+col, y+row, color)
			}
		}
	}
}

// DrawString paints a string starting at (x,y). A newline advances the cursor 10 px down and
// resets it to the starting column; there is no wrapping at the surface edge.
func (s *Surface) DrawString(x, y int, str string, color uint32) {
	cx, cy := x, y

	for i := 0; i < len(str); i++ {
		ch := str[i]

		if ch == '\n' {
			cx = x
			cy += 10

			continue
		}

		s.DrawChar(cx, cy, ch, color)
		cx += 8
	}
}
