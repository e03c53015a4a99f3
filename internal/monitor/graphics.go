package monitor

import "github.com/brewos/kernel/internal/vm"

// defaultTextColor is used by draw_text, which (per its 3-argument arity) carries no color
// operand of its own.
const defaultTextColor = 0xFFFFFF

var graphicsRoutines = []Routine{
	{Name: "draw_pixel", ID: SysDrawPixel, Code: func(m *Monitor, in *vm.Interp) {
		color := in.Pop()
		y := in.Pop()
		x := in.Pop()

		in.Overlay.Pixels = append(in.Overlay.Pixels, vm.OverlayPixel{
			X: int(x), Y: int(y), Color: uint32(color),
		})
		m.notifyDirty()
		in.Push(0)
	}},
	{Name: "draw_rect", ID: SysDrawRect, Code: func(m *Monitor, in *vm.Interp) {
		color := in.Pop()
		h := in.Pop()
		w := in.Pop()
		y := in.Pop()
		x := in.Pop()

		in.Overlay.Rects = append(in.Overlay.Rects, vm.OverlayRect{
			X: int(x), Y: int(y), W: int(w), H: int(h), Color: uint32(color), Fill: true,
		})
		m.notifyDirty()
		in.Push(0)
	}},
	{Name: "draw_line", ID: SysDrawLine, Code: func(m *Monitor, in *vm.Interp) {
		color := in.Pop()
		y1 := in.Pop()
		x1 := in.Pop()
		y0 := in.Pop()
		x0 := in.Pop()

		in.Overlay.Lines = append(in.Overlay.Lines, vm.OverlayLine{
			X0: int(x0), Y0: int(y0), X1: int(x1), Y1: int(y1), Color: uint32(color),
		})
		m.notifyDirty()
		in.Push(0)
	}},
	{Name: "draw_text", ID: SysDrawText, Code: func(m *Monitor, in *vm.Interp) {
		textAddr := in.Pop()
		y := in.Pop()
		x := in.Pop()

		in.Overlay.Texts = append(in.Overlay.Texts, vm.OverlayText{
			X: int(x), Y: int(y), Text: in.Mem.ReadCString(textAddr), Color: defaultTextColor,
		})
		m.notifyDirty()
		in.Push(0)
	}},
	{Name: "get_width", ID: SysGetWidth, Code: func(m *Monitor, in *vm.Interp) {
		in.Push(vm.Word(m.Width))
	}},
	{Name: "get_height", ID: SysGetHeight, Code: func(m *Monitor, in *vm.Interp) {
		in.Push(vm.Word(m.Height))
	}},
}

func (m *Monitor) notifyDirty() {
	if m.Draw != nil {
		m.Draw()
	}
}
