package vm

// Overlay records the graphics syscalls a running program has issued this tick: draw_pixel,
// draw_rect, draw_line, draw_text. The window manager installs a paint hook that walks this list
// after every other layer has painted and marks itself dirty whenever it's non-empty, per the VM
// design's "draw_rect also records into an overlay list and marks the WM dirty."
type Overlay struct {
	Pixels []OverlayPixel
	Rects  []OverlayRect
	Lines  []OverlayLine
	Texts  []OverlayText
}

type OverlayPixel struct {
	X, Y  int
	Color uint32
}

type OverlayRect struct {
	X, Y, W, H int
	Color      uint32
	Fill       bool
}

type OverlayLine struct {
	X0, Y0, X1, Y1 int
	Color          uint32
}

type OverlayText struct {
	X, Y  int
	Text  string
	Color uint32
}

// NewOverlay returns an empty overlay list.
func NewOverlay() *Overlay { return &Overlay{} }

// Clear discards every recorded draw call, run at the start of each program lifecycle.
func (o *Overlay) Clear() {
	o.Pixels = o.Pixels[:0]
	o.Rects = o.Rects[:0]
	o.Lines = o.Lines[:0]
	o.Texts = o.Texts[:0]
}

// Dirty reports whether anything has been drawn since the last Clear.
func (o *Overlay) Dirty() bool {
	return len(o.Pixels) > 0 || len(o.Rects) > 0 || len(o.Lines) > 0 || len(o.Texts) > 0
}
