package wm

import (
	"github.com/brewos/kernel/internal/gfx"
	"github.com/brewos/kernel/internal/log"
)

// Colors used by the bevelled Win3.1-style chrome. Named to match the original palette rather than
// a generic theme, since the shell and control panel reference these by meaning.
var (
	ColorGray   = gfx.RGB(0xc0, 0xc0, 0xc0)
	ColorDkGray = gfx.RGB(0x80, 0x80, 0x80)
	ColorLtGray = gfx.RGB(0xe0, 0xe0, 0xe0)
	ColorWhite  = gfx.RGB(0xff, 0xff, 0xff)
	ColorBlack  = gfx.RGB(0x00, 0x00, 0x00)
	ColorBlue   = gfx.RGB(0x00, 0x00, 0x80)
	ColorTeal   = gfx.RGB(0x00, 0x80, 0x80)
)

// Icon is a desktop shortcut: a hit-box plus the window it raises.
type Icon struct {
	X, Y, W, H int
	Label      string
	Target     *Window
}

// MenuItem is one row of the start menu.
type MenuItem struct {
	Label  string
	Action func()
}

const (
	taskbarHeight  = 28
	startBtnWidth  = 90
	startBtnHeight = 24
	menuWidth      = 120
	menuItemHeight = 20
	cursorSize     = 10
)

// dragState is the WM's drag state machine: IDLE or DRAGGING(window, offset).
type dragState struct {
	active  bool
	window  *Window
	offsetX int
	offsetY int
}

// Manager owns the shared back buffer, the fixed window array, desktop icons, the start menu, and
// cursor/drag state. All composition flows through Manager.Tick and Manager.Paint.
type Manager struct {
	Surface *gfx.Surface

	windows [MaxWindows]*Window
	count   int

	icons     []Icon
	menuItems []MenuItem

	mouseX, mouseY           int
	lastCursorX, lastCursorY int
	cursorVisible            bool

	prevLeft, prevRight bool
	drag                dragState

	startMenuOpen bool
	forceRedraw   bool
	ticks         uint64
	lastSecond    int

	// ClockFn reports the current (hour, minute, second), grounded on wm.c's RTC read. The host
	// supplies wall-clock time; the manager only decides when to repaint it.
	ClockFn func() (hour, minute, second int)

	log *log.Logger
}

// New creates a window manager over the given surface.
func New(s *gfx.Surface) *Manager {
	return &Manager{
		Surface:       s,
		mouseX:        s.Width / 2,
		mouseY:        s.Height / 2,
		cursorVisible: true,
		lastSecond:    -1,
		forceRedraw:   true,
		log:           log.DefaultLogger(),
	}
}

// Register adds a window to the fixed array. It returns false once MaxWindows is reached.
func (m *Manager) Register(w *Window) bool {
	if m.count >= MaxWindows {
		return false
	}

	w.ZIndex = m.count
	m.windows[m.count] = w
	m.count++

	return true
}

// AddIcon adds a desktop icon shortcut.
func (m *Manager) AddIcon(icon Icon) {
	m.icons = append(m.icons, icon)
}

// SetMenu replaces the start menu's item list.
func (m *Manager) SetMenu(items []MenuItem) {
	m.menuItems = items
}

// Refresh forces a full repaint on the next Tick.
func (m *Manager) Refresh() {
	m.forceRedraw = true
}

// maxZIndex returns the highest z-index among registered windows.
func (m *Manager) maxZIndex() int {
	max := 0

	for i := 0; i < m.count; i++ {
		if m.windows[i].ZIndex > max {
			max = m.windows[i].ZIndex
		}
	}

	return max
}

// raise unfocuses every window, then focuses w and places it above all others.
func (m *Manager) raise(w *Window) {
	for i := 0; i < m.count; i++ {
		m.windows[i].Focused = false
	}

	w.ZIndex = m.maxZIndex() + 1
	w.Focused = true
}

// Show makes a window visible and brings it to the front, per wm.c's desktop-icon and start-menu
// click handlers.
func (m *Manager) Show(w *Window) {
	w.Visible = true
	m.raise(w)
	m.forceRedraw = true
}

// topmostAt returns the highest z-index visible window containing (x,y), or nil.
func (m *Manager) topmostAt(x, y int) *Window {
	var top *Window
	topZ := -1

	for i := 0; i < m.count; i++ {
		w := m.windows[i]
		if w.Visible && w.contains(x, y) && w.ZIndex > topZ {
			top = w
			topZ = w.ZIndex
		}
	}

	return top
}
