package wm

import (
	"testing"

	"github.com/brewos/kernel/internal/gfx"
)

func newTestManager() *Manager {
	return New(gfx.NewSurface(320, 240))
}

func TestRegisterAssignsAscendingZIndex(t *testing.T) {
	m := newTestManager()

	a := &Window{Title: "a"}
	b := &Window{Title: "b"}

	m.Register(a)
	m.Register(b)

	if a.ZIndex >= b.ZIndex {
		t.Errorf("expected a.ZIndex < b.ZIndex, got %d, %d", a.ZIndex, b.ZIndex)
	}
}

func TestShowRaisesAboveAllOthers(t *testing.T) {
	m := newTestManager()

	a := &Window{Title: "a", W: 50, H: 50}
	b := &Window{Title: "b", W: 50, H: 50}
	m.Register(a)
	m.Register(b)

	m.Show(a)

	if a.ZIndex <= b.ZIndex {
		t.Errorf("a.ZIndex = %d should exceed b.ZIndex = %d after Show", a.ZIndex, b.ZIndex)
	}

	if !a.Visible || !a.Focused {
		t.Error("Show should make the window visible and focused")
	}
}

func TestClickDispatchesToTopmostWindow(t *testing.T) {
	m := newTestManager()

	var clickedX, clickedY int
	clicked := false

	w := &Window{Title: "w", X: 10, Y: 10, W: 100, H: 100, Visible: true}
	w.Callbacks.Click = func(win *Window, relX, relY int) {
		clicked = true
		clickedX, clickedY = relX, relY
	}
	m.Register(w)

	m.HandleMouse(50-m.mouseX, 50-m.mouseY, ButtonLeft)

	if !clicked {
		t.Fatal("expected content click to fire")
	}

	if clickedX != 40 || clickedY != 40 {
		t.Errorf("relative click = (%d,%d), want (40,40)", clickedX, clickedY)
	}
}

func TestCloseButtonHidesWindow(t *testing.T) {
	m := newTestManager()

	w := &Window{Title: "w", X: 0, Y: 0, W: 100, H: 100, Visible: true}
	m.Register(w)

	cx, cy, _ := w.closeButtonRect()

	m.HandleMouse(cx-m.mouseX, cy-m.mouseY, ButtonLeft)
	m.HandleMouse(0, 0, 0) // release

	if w.Visible {
		t.Error("clicking the close button should hide the window")
	}
}

func TestTitleBarDragMovesWindow(t *testing.T) {
	m := newTestManager()

	w := &Window{Title: "w", X: 20, Y: 20, W: 100, H: 100, Visible: true}
	m.Register(w)

	m.HandleMouse(30-m.mouseX, 25-m.mouseY, ButtonLeft)

	if !m.drag.active {
		t.Fatal("expected drag to start on title-bar press")
	}

	m.HandleMouse(10, 10, ButtonLeft)

	if w.X != m.mouseX-m.drag.offsetX || w.Y != m.mouseY-m.drag.offsetY {
		t.Error("dragged window should track cursor minus offset")
	}

	m.HandleMouse(0, 0, 0)

	if m.drag.active {
		t.Error("releasing the button should end the drag")
	}
}

func TestCursorClampsToScreen(t *testing.T) {
	m := newTestManager()

	m.HandleMouse(-10000, -10000, 0)
	if m.mouseX != 0 || m.mouseY != 0 {
		t.Errorf("cursor = (%d,%d), want clamped to (0,0)", m.mouseX, m.mouseY)
	}

	m.HandleMouse(1000000, 1000000, 0)
	if m.mouseX != m.Surface.Width-1 || m.mouseY != m.Surface.Height-1 {
		t.Error("cursor should clamp to bottom-right")
	}
}

func TestKeyDeliversToFocusedVisibleWindow(t *testing.T) {
	m := newTestManager()

	var got byte

	w := &Window{Title: "w", Visible: true, Focused: true}
	w.Callbacks.Key = func(win *Window, ch byte) { got = ch }
	m.Register(w)

	m.HandleKey('x')

	if got != 'x' {
		t.Errorf("key callback received %q, want 'x'", got)
	}
}

func TestStartMenuToggles(t *testing.T) {
	m := newTestManager()

	x, y := 10, m.Surface.Height-taskbarHeight+10

	m.HandleMouse(x-m.mouseX, y-m.mouseY, ButtonLeft)
	if !m.startMenuOpen {
		t.Fatal("clicking the start button should open the menu")
	}

	m.HandleMouse(0, 0, 0)
	m.HandleMouse(x-m.mouseX, y-m.mouseY, ButtonLeft)
	if m.startMenuOpen {
		t.Error("clicking the start button again should close the menu")
	}
}
