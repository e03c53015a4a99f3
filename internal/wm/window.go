// Package wm implements the window manager and compositor: a fixed small array of windows, z-order
// and focus bookkeeping, a cursor/desktop/taskbar/start-menu composition pipeline, and mouse/keyboard
// input routing including the drag state machine. It is new code grounded on
// original_source/src/kernel/wm.c, restructured around internal/gfx.Surface and the teacher's
// operation-pipeline idiom (small, named steps run in sequence by a single driving method).
package wm

// MaxWindows bounds the fixed window array, per spec.md §3's Window invariant.
const MaxWindows = 16

// Callbacks are the four optional per-window hooks. A nil field means the window does not respond
// to that event.
type Callbacks struct {
	Paint      func(w *Window)
	Key        func(w *Window, ch byte)
	Click      func(w *Window, relX, relY int)
	RightClick func(w *Window, relX, relY int)
}

// Window is one entry in the WM's fixed window array. Windows are created at init and never freed;
// Visible=false is the close semantics.
type Window struct {
	Title string

	X, Y, W, H int

	Visible bool
	Focused bool
	ZIndex  int

	// Scratch is opaque per-window state (e.g. an editor's text buffer and cursor index). The WM
	// never interprets it; only the window's own callbacks do.
	Scratch any

	Callbacks Callbacks
}

// TitleBarHeight is the height of the draggable/close-button strip at the top of a window.
const TitleBarHeight = 24

// CloseButtonSize is the side length of the title-bar close button hit-box.
const CloseButtonSize = 14

// contains reports whether (px,py) lies within the window's rectangle.
func (w *Window) contains(px, py int) bool {
	return px >= w.X && px < w.X+w.W && py >= w.Y && py < w.Y+w.H
}

// closeButtonRect returns the close button's screen-space hit rectangle.
func (w *Window) closeButtonRect() (x, y, size int) {
	return w.X + w.W - 20, w.Y + 5, CloseButtonSize
}

// titleBarContains reports whether (px,py) falls within the draggable title bar, excluding the
// close button.
func (w *Window) titleBarContains(px, py int) bool {
	if py >= w.Y+TitleBarHeight {
		return false
	}

	cx, cy, sz := w.closeButtonRect()
	if px >= cx && px < cx+sz && py >= cy && py < cy+sz {
		return false
	}

	return true
}
