package monitor

import (
	"bytes"
	"testing"

	"github.com/brewos/kernel/internal/vm"
)

type fakeKeyboard struct {
	buf []byte
}

func (k *fakeKeyboard) Hit() bool { return len(k.buf) > 0 }

func (k *fakeKeyboard) Read() byte {
	if len(k.buf) == 0 {
		return 0
	}

	c := k.buf[0]
	k.buf = k.buf[1:]

	return c
}

func newTestMonitor(kb KeyboardSource) (*Monitor, *bytes.Buffer, *vm.Interp) {
	var out bytes.Buffer

	m := New(&out, kb, 320, 240)
	in := vm.New(vm.WithMonitor(m))
	in.Reset([]byte(vm.Magic + "\x01"))

	return m, &out, in
}

func TestPrintIntWritesDecimal(t *testing.T) {
	m, out, in := newTestMonitor(nil)

	in.Push(42)
	m.Dispatch(SysPrintInt, in)

	if out.String() != "42" {
		t.Errorf("output = %q, want %q", out.String(), "42")
	}
}

func TestGetcharReturnsZeroWhenEmpty(t *testing.T) {
	m, _, in := newTestMonitor(nil)

	m.Dispatch(SysGetchar, in)

	if got := in.Pop(); got != 0 {
		t.Errorf("getchar on empty input = %d, want 0", got)
	}
}

func TestGetcharDrainsKeyboard(t *testing.T) {
	m, _, in := newTestMonitor(&fakeKeyboard{buf: []byte("A")})

	m.Dispatch(SysGetchar, in)

	if got := in.Pop(); got != vm.Word('A') {
		t.Errorf("getchar = %d, want %d", got, 'A')
	}
}

func TestMallocReturnsDistinctAddresses(t *testing.T) {
	m, _, in := newTestMonitor(nil)

	in.Push(16)
	m.Dispatch(SysMalloc, in)
	a := in.Pop()

	in.Push(16)
	m.Dispatch(SysMalloc, in)
	b := in.Pop()

	if b != a+16 {
		t.Errorf("second malloc = %d, want %d", b, a+16)
	}
}

func TestStrlenReadsCString(t *testing.T) {
	m, _, in := newTestMonitor(nil)

	in.Mem.WriteCString(vm.DataSegStart, "hello")

	in.Push(vm.DataSegStart)
	m.Dispatch(SysStrlen, in)

	if got := in.Pop(); got != 5 {
		t.Errorf("strlen = %d, want 5", got)
	}
}

func TestStrcpyWritesThenReturnsDest(t *testing.T) {
	m, _, in := newTestMonitor(nil)

	const src, dst = vm.DataSegStart, vm.DataSegStart + 64

	in.Mem.WriteCString(src, "copy me")

	in.Push(dst)
	in.Push(src)
	m.Dispatch(SysStrcpy, in)

	if got := in.Pop(); got != dst {
		t.Errorf("strcpy returned %d, want dst %d", got, vm.Word(dst))
	}

	if got := in.Mem.ReadCString(dst); got != "copy me" {
		t.Errorf("copied string = %q, want %q", got, "copy me")
	}
}

func TestSqrtFindsLargestNSquaredLE(t *testing.T) {
	m, _, in := newTestMonitor(nil)

	in.Push(30)
	m.Dispatch(SysSqrt, in)

	if got := in.Pop(); got != 5 {
		t.Errorf("sqrt(30) = %d, want 5", got)
	}
}

func TestDrawRectRecordsOverlayAndMarksDirty(t *testing.T) {
	m, _, in := newTestMonitor(nil)

	dirty := false
	m.Draw = func() { dirty = true }

	in.Push(10)
	in.Push(20)
	in.Push(30)
	in.Push(40)
	in.Push(0xFF0000)
	m.Dispatch(SysDrawRect, in)

	if !dirty {
		t.Error("expected draw_rect to notify the WM of a dirty overlay")
	}

	if len(in.Overlay.Rects) != 1 {
		t.Fatalf("overlay rects = %d, want 1", len(in.Overlay.Rects))
	}

	r := in.Overlay.Rects[0]
	if r.X != 10 || r.Y != 20 || r.W != 30 || r.H != 40 {
		t.Errorf("rect = %+v, want x=10 y=20 w=30 h=40", r)
	}
}

func TestGetWidthAndHeight(t *testing.T) {
	m, _, in := newTestMonitor(nil)

	m.Dispatch(SysGetWidth, in)
	if got := in.Pop(); got != 320 {
		t.Errorf("get_width = %d, want 320", got)
	}

	m.Dispatch(SysGetHeight, in)
	if got := in.Pop(); got != 240 {
		t.Errorf("get_height = %d, want 240", got)
	}
}

func TestUnknownSyscallPushesZero(t *testing.T) {
	m, _, in := newTestMonitor(nil)

	m.Dispatch(9999, in)

	if got := in.Pop(); got != 0 {
		t.Errorf("unknown syscall pushed %d, want 0", got)
	}
}
