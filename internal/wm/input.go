package wm

// Button bits for HandleMouse, per wm.c's wm_handle_mouse.
const (
	ButtonLeft  = 1 << 0
	ButtonRight = 1 << 1
)

// Arrow-key sentinel bytes delivered to a window's Key callback, per wm.c's key encoding.
const (
	KeyUp        = 17
	KeyDown      = 18
	KeyLeft      = 19
	KeyRight     = 20
	KeyBackspace = '\b'
	KeyEnter     = '\n'
)

// HandleMouse applies a relative motion and button-mask sample: clamps the cursor to the screen,
// detects button edges, dispatches clicks, and drives the drag state machine.
func (m *Manager) HandleMouse(dx, dy int, buttons uint8) {
	m.mouseX += dx
	m.mouseY += dy

	if m.mouseX < 0 {
		m.mouseX = 0
	}

	if m.mouseY < 0 {
		m.mouseY = 0
	}

	if m.mouseX >= m.Surface.Width {
		m.mouseX = m.Surface.Width - 1
	}

	if m.mouseY >= m.Surface.Height {
		m.mouseY = m.Surface.Height - 1
	}

	left := buttons&ButtonLeft != 0
	right := buttons&ButtonRight != 0

	switch {
	case left && !m.prevLeft:
		m.handleClick(m.mouseX, m.mouseY)
	case right && !m.prevRight:
		m.handleRightClick(m.mouseX, m.mouseY)
	case left && m.drag.active:
		m.drag.window.X = m.mouseX - m.drag.offsetX
		m.drag.window.Y = m.mouseY - m.drag.offsetY
		m.forceRedraw = true
	case left && !m.drag.active && (dx != 0 || dy != 0):
		m.forceRedraw = true
	case !left && m.drag.active:
		m.drag = dragState{}
		m.forceRedraw = true
	}

	m.prevLeft, m.prevRight = left, right
}

func rectContains(x, y, w, h, px, py int) bool {
	return px >= x && px < x+w && py >= y && py < y+h
}

// handleClick mirrors wm.c's wm_handle_click: start button, start menu, topmost window (including
// close button / title-bar drag start / content click), then desktop icons.
func (m *Manager) handleClick(x, y int) {
	defer func() { m.forceRedraw = true }()

	sh := m.Surface.Height

	if rectContains(2, sh-taskbarHeight+2, startBtnWidth, startBtnHeight, x, y) {
		m.startMenuOpen = !m.startMenuOpen
		return
	}

	if m.startMenuOpen {
		mx, my, mw, mh := m.startMenuRect()
		if rectContains(mx, my, mw, mh, x, y) {
			idx := (y - my - 4) / menuItemHeight
			m.startMenuOpen = false

			if idx >= 0 && idx < len(m.menuItems) && m.menuItems[idx].Action != nil {
				m.menuItems[idx].Action()
			}

			return
		}

		m.startMenuOpen = false
	}

	if top := m.topmostAt(x, y); top != nil {
		m.raise(top)

		cx, cy, sz := top.closeButtonRect()
		switch {
		case rectContains(cx, cy, sz, sz, x, y):
			top.Visible = false
		case top.titleBarContains(x, y):
			m.drag = dragState{active: true, window: top, offsetX: x - top.X, offsetY: y - top.Y}
		default:
			if top.Callbacks.Click != nil {
				top.Callbacks.Click(top, x-top.X, y-top.Y)
			}
		}

		return
	}

	for i := 0; i < m.count; i++ {
		m.windows[i].Focused = false
	}

	for _, icon := range m.icons {
		if rectContains(icon.X, icon.Y, icon.W, icon.H, x, y) && icon.Target != nil {
			m.Show(icon.Target)
			return
		}
	}
}

func (m *Manager) handleRightClick(x, y int) {
	defer func() { m.forceRedraw = true }()

	top := m.topmostAt(x, y)
	if top == nil || y < top.Y+TitleBarHeight {
		return
	}

	if top.Callbacks.RightClick != nil {
		top.Callbacks.RightClick(top, x-top.X, y-top.Y)
	}
}

// HandleKey delivers a character to the focused, visible window, per wm.c's wm_handle_key.
func (m *Manager) HandleKey(ch byte) {
	var target *Window

	for i := 0; i < m.count; i++ {
		w := m.windows[i]
		if w.Focused && w.Visible {
			target = w
			break
		}
	}

	if target == nil || target.Callbacks.Key == nil {
		return
	}

	target.Callbacks.Key(target, ch)
	m.forceRedraw = true
}
