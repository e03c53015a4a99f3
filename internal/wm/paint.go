package wm

// cursorBitmap is the 10x10 arrow cursor: 0 transparent, 1 black, 2 white, per wm.c's draw_cursor.
var cursorBitmap = [10][10]uint8{
	{1, 1, 0, 0, 0, 0, 0, 0, 0, 0},
	{1, 2, 1, 0, 0, 0, 0, 0, 0, 0},
	{1, 2, 2, 1, 0, 0, 0, 0, 0, 0},
	{1, 2, 2, 2, 1, 0, 0, 0, 0, 0},
	{1, 2, 2, 2, 2, 1, 0, 0, 0, 0},
	{1, 2, 2, 2, 2, 2, 1, 0, 0, 0},
	{1, 2, 2, 1, 1, 1, 1, 0, 0, 0},
	{1, 1, 1, 0, 1, 2, 1, 0, 0, 0},
	{0, 0, 0, 0, 0, 1, 2, 1, 0, 0},
	{0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
}

// drawBevel paints a Win 3.1-style bevelled box: gray fill, light top/left, dark bottom/right
// (reversed when sunken).
func (m *Manager) drawBevel(x, y, w, h int, sunken bool) {
	s := m.Surface
	s.FillRect(x, y, w, h, ColorGray)

	topLeft, botRight := ColorWhite, ColorDkGray
	if sunken {
		topLeft, botRight = ColorDkGray, ColorWhite
	}

	s.FillRect(x, y, w, 1, topLeft)
	s.FillRect(x, y, 1, h, topLeft)
	s.FillRect(x, y+h-1, w, 1, botRight)
	s.FillRect(x+w-1, y, 1, h, botRight)
}

func (m *Manager) drawButton(x, y, w, h int, text string, pressed bool) {
	m.drawBevel(x, y, w, h, pressed)

	tx := x + (w-len(text)*8)/2
	ty := y + (h-8)/2

	if pressed {
		tx++
		ty++
	}

	m.Surface.DrawString(tx, ty, text, ColorBlack)
}

func (m *Manager) drawCursor(x, y int) {
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			switch cursorBitmap[r][c] {
			case 1:
				m.Surface.PutPixel(x+c, y+r, ColorBlack)
			case 2:
				m.Surface.PutPixel(x+c, y+r, ColorWhite)
			}
		}
	}
}

// eraseCursor redraws the background under the previous cursor footprint, per wm.c's erase_cursor:
// teal desktop above the taskbar, gray within it.
func (m *Manager) eraseCursor(x, y int) {
	s := m.Surface

	if y < s.Height-taskbarHeight {
		s.FillRect(x, y, cursorSize, cursorSize, ColorTeal)
	} else {
		s.FillRect(x, y, cursorSize, cursorSize, ColorGray)
	}
}

func (m *Manager) drawWindow(w *Window) {
	if !w.Visible {
		return
	}

	s := m.Surface
	m.drawBevel(w.X, w.Y, w.W, w.H, false)

	titleColor := ColorDkGray
	if w.Focused {
		titleColor = ColorBlue
	}

	s.FillRect(w.X+3, w.Y+3, w.W-6, 18, titleColor)
	s.DrawString(w.X+8, w.Y+8, w.Title, ColorWhite)

	cx, cy, sz := w.closeButtonRect()
	m.drawButton(cx, cy, sz, sz, "X", false)

	s.FillRect(w.X+4, w.Y+24, w.W-8, w.H-28, ColorWhite)

	if w.Callbacks.Paint != nil {
		w.Callbacks.Paint(w)
	}
}

func (m *Manager) drawDesktop() {
	s := m.Surface
	s.FillRect(0, 0, s.Width, s.Height-taskbarHeight, ColorTeal)

	for _, icon := range m.icons {
		s.DrawString(icon.X, icon.Y+icon.H, icon.Label, ColorWhite)
	}
}

func (m *Manager) drawTaskbar() {
	s := m.Surface
	y := s.Height - taskbarHeight

	s.FillRect(0, y, s.Width, taskbarHeight, ColorGray)
	s.FillRect(0, y, s.Width, 2, ColorWhite)

	m.drawBevel(2, y+2, startBtnWidth, startBtnHeight, m.startMenuOpen)
	s.DrawString(35, y+8, "BrewOS", ColorBlack)

	if m.ClockFn != nil {
		h, mi, se := m.ClockFn()
		s.DrawString(s.Width-80, y+8, clockString(h, mi, se), ColorBlack)
	}

	if m.startMenuOpen {
		m.drawStartMenu()
	}
}

func clockString(h, m, s int) string {
	digit := func(n int) byte { return byte('0' + n%10) }

	buf := make([]byte, 8)
	buf[0], buf[1] = digit(h/10), digit(h)
	buf[2] = ':'
	buf[3], buf[4] = digit(m/10), digit(m)
	buf[5] = ':'
	buf[6], buf[7] = digit(s/10), digit(s)

	return string(buf)
}

func (m *Manager) startMenuRect() (x, y, w, h int) {
	h = len(m.menuItems)*menuItemHeight + 10
	y = m.Surface.Height - taskbarHeight - h

	return 0, y, menuWidth, h
}

func (m *Manager) drawStartMenu() {
	x, y, w, h := m.startMenuRect()
	m.drawBevel(x, y, w, h, false)

	for i, item := range m.menuItems {
		m.Surface.DrawString(x+8, y+8+i*menuItemHeight, item.Label, ColorBlack)
	}
}

// Paint runs the full composition pipeline: erase cursor, desktop, icons, windows in z-order,
// taskbar/start menu, cursor, flip. It corresponds to wm.c's wm_paint.
func (m *Manager) Paint(front []uint32) {
	if m.cursorVisible {
		m.eraseCursor(m.lastCursorX, m.lastCursorY)
	}

	m.drawDesktop()

	sorted := m.visibleByZOrder()
	for _, w := range sorted {
		m.drawWindow(w)
	}

	m.drawTaskbar()

	m.drawCursor(m.mouseX, m.mouseY)
	m.lastCursorX, m.lastCursorY = m.mouseX, m.mouseY

	m.Surface.Flip(front)
}

// visibleByZOrder returns every registered window sorted ascending by z-index, mirroring wm.c's
// bubble sort over its fixed window array.
func (m *Manager) visibleByZOrder() []*Window {
	out := make([]*Window, m.count)
	copy(out, m.windows[:m.count])

	for i := 0; i < len(out)-1; i++ {
		for j := 0; j < len(out)-i-1; j++ {
			if out[j].ZIndex > out[j+1].ZIndex {
				out[j], out[j+1] = out[j+1], out[j]
			}
		}
	}

	return out
}
