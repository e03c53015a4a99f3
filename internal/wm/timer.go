package wm

import "github.com/brewos/kernel/internal/log"

// Tick runs once per ~60 Hz timer interrupt. It marks the clock area dirty when the wall-clock
// second has changed, promotes a forced redraw to "whole screen dirty", and repaints exactly when
// something is dirty -- mirroring wm.c's wm_timer_tick.
func (m *Manager) Tick(front []uint32) {
	m.ticks++

	if m.ClockFn != nil {
		_, _, sec := m.ClockFn()
		if sec != m.lastSecond {
			m.lastSecond = sec
			m.Surface.MarkDirty(m.Surface.Width-90, m.Surface.Height-30, 90, 20)
		}
	}

	if m.forceRedraw {
		m.Surface.MarkDirty(0, 0, m.Surface.Width, m.Surface.Height)
		m.forceRedraw = false
	}

	if !m.Surface.DirtyRect().Empty() {
		m.Paint(front)
		m.Surface.ClearDirty()
	}

	if m.log != nil {
		m.log.Debug("wm tick", log.Tick(m.ticks))
	}
}
