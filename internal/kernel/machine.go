// Package kernel owns the whole simulated system: the boot info a real bootloader would hand off,
// every subsystem (compositor, filesystem, allocator, PCI bus, NIC, network stack, shell), and the
// boot thread that drives them once per tick. It is new code, grounded on elsie's cmd/elsie wiring
// of a single interpreter plus peripherals, generalized to the larger peripheral set spec.md §0
// describes and restructured around golang.org/x/sync/errgroup the way a supervised set of
// long-lived goroutines is commonly wired in the example pack.
package kernel

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brewos/kernel/internal/alloc"
	"github.com/brewos/kernel/internal/e1000"
	"github.com/brewos/kernel/internal/gfx"
	"github.com/brewos/kernel/internal/log"
	"github.com/brewos/kernel/internal/netstack"
	"github.com/brewos/kernel/internal/pci"
	"github.com/brewos/kernel/internal/shell"
	"github.com/brewos/kernel/internal/vfs"
	"github.com/brewos/kernel/internal/wm"
)

// e1000VendorID and e1000DeviceID identify the single simulated NIC function attached to the PCI
// bus at boot, matching the real Intel 82540EM IDs the original source's pci.c probes for.
const (
	e1000VendorID = 0x8086
	e1000DeviceID = 0x100E

	heapBytes = 16 * 1024 * 1024

	// tickRate paces Machine.Tick the way elsie's console goroutines poll at a fixed interval --
	// fast enough for the shell's own polling loops (e.g. udptest) to make progress within a human
	// perceived instant, slow enough not to spin the host CPU.
	tickRate = 16 * time.Millisecond
)

// BootInfo is the subset of a real bootloader's handoff structure this simulator needs: a
// framebuffer descriptor, the amount of usable memory to back the allocator, and the
// identity-mapped physical/virtual base pair p2v/v2p translate between. There being no real
// bootloader, DefaultBootInfo synthesizes one from fixed values.
type BootInfo struct {
	FramebufferWidth  int
	FramebufferHeight int
	UsableMemory      int
	PhysBase          uintptr
	VirtBase          uintptr
}

// DefaultBootInfo returns the boot parameters brewctl and cmd/brewos use absent any real firmware
// handoff: a 320x240 framebuffer (matching internal/gfx's bitmap font's design resolution) and a
// 16 MiB heap.
func DefaultBootInfo() BootInfo {
	return BootInfo{
		FramebufferWidth:  320,
		FramebufferHeight: 240,
		UsableMemory:      heapBytes,
		PhysBase:          0,
		VirtBase:          0,
	}
}

// Machine owns every subsystem and the boot thread that drives them. One Machine is constructed
// per run of cmd/brewos (or per test).
type Machine struct {
	Boot BootInfo

	Surface *gfx.Surface
	WM      *wm.Manager
	FS      *vfs.FS
	Pool    *alloc.Pool
	PCI     *pci.Bus
	NIC     *e1000.NIC
	Net     *netstack.Stack
	Shell   *shell.Shell

	log *log.Logger
}

// OptionFn configures a Machine during New, mirroring internal/vm's and internal/cli's
// functional-option idiom.
type OptionFn func(*Machine)

// New wires every subsystem in dependency order: graphics surface, compositor, filesystem,
// allocator, PCI bus with one attached e1000 function, the NIC itself, the network stack, and
// finally the shell that ties them together.
func New(info BootInfo, opts ...OptionFn) *Machine {
	surface := gfx.NewSurface(info.FramebufferWidth, info.FramebufferHeight)
	manager := wm.New(surface)
	manager.ClockFn = func() (int, int, int) {
		now := time.Now()
		return now.Hour(), now.Minute(), now.Second()
	}

	fs := vfs.New()
	pool := alloc.NewPool(info.UsableMemory)

	bus := pci.NewBus()
	bus.Attach(pci.Device{
		Bus: 0, Slot: 3, Function: 0,
		VendorID: e1000VendorID, DeviceID: e1000DeviceID,
		ClassCode: 0x02, Subclass: 0x00,
		BAR0: 0xF0000000,
	})

	dev, _ := bus.FindDevice(e1000VendorID, e1000DeviceID)
	nic := e1000.New(dev)

	if err := nic.Init(bus); err != nil {
		log.DefaultLogger().Error("e1000 init failed", "err", err)
	}

	net := netstack.New(nic)

	sh := shell.New(fs, pool, bus, nic, net)
	sh.Width, sh.Height = info.FramebufferWidth, info.FramebufferHeight

	m := &Machine{
		Boot:    info,
		Surface: surface,
		WM:      manager,
		FS:      fs,
		Pool:    pool,
		PCI:     bus,
		NIC:     nic,
		Net:     net,
		Shell:   sh,
		log:     log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithConsole wires a host console into the shell so any "./program" or "/Apps/x" the shell
// dispatches can read keyboard input.
func WithConsole(c interface {
	Hit() bool
	Read() byte
}) OptionFn {
	return func(m *Machine) {
		m.Shell.Keyboard = c
	}
}

// Tick advances one frame: the compositor repaints whatever changed and the network stack
// processes any pending frames. It is the generalization of elsie's per-instruction fetch-decode-
// execute step to a machine whose "instruction" is a fixed-rate frame.
func (m *Machine) Tick() {
	m.WM.Refresh()
	m.Net.Poll()
}

// p2v and v2p are the identity translation a flat simulated address space needs -- there's no real
// paging here, only the handoff contract a bootloader would otherwise enforce. Kept as named
// functions so a future MMU could replace the bodies without touching callers.
func (m *Machine) p2v(phys uintptr) uintptr { return phys - m.Boot.PhysBase + m.Boot.VirtBase }
func (m *Machine) v2p(virt uintptr) uintptr { return virt - m.Boot.VirtBase + m.Boot.PhysBase }

// Run drives the boot thread: a ticker goroutine calling Tick at tickRate, and an input goroutine
// reading shell command lines and writing their output to out, mirroring spec.md §2's
// "process_input(); wait_for_interrupt();" loop. It returns when ctx is cancelled, the shell halts
// (shutdown), or input reaches EOF.
func (m *Machine) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		ticker := time.NewTicker(tickRate)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				m.Tick()

				if m.Shell.Halted() || m.Shell.Rebooting() {
					cancel()
					return nil
				}
			}
		}
	})

	group.Go(func() error {
		defer cancel()
		return m.processInput(ctx, in, out)
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// KeyboardSource is the non-blocking byte source RunInteractive polls -- the same shape as
// monitor.KeyboardSource and tty.Console, kept local so this package doesn't have to import
// internal/monitor just for a two-method interface.
type KeyboardSource interface {
	Hit() bool
	Read() byte
}

// RunInteractive is Run's counterpart for a real terminal in raw mode: rather than blocking on a
// line-buffered io.Reader, it polls kb for individual keystrokes every tick, echoing and
// assembling a line itself, and dispatches to the shell on Enter. Backspace (0x7f or 0x08) erases
// the last assembled character.
func (m *Machine) RunInteractive(ctx context.Context, kb KeyboardSource, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		ticker := time.NewTicker(tickRate)
		defer ticker.Stop()

		var line []byte

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				m.Tick()

				for kb.Hit() {
					b := kb.Read()

					switch b {
					case '\r', '\n':
						out.Write([]byte("\r\n"))
						m.Shell.Run(ctx, string(line), out)
						line = line[:0]
					case 0x7f, 0x08:
						if len(line) > 0 {
							line = line[:len(line)-1]
							out.Write([]byte("\b \b"))
						}
					default:
						line = append(line, b)
						out.Write([]byte{b})
					}
				}

				if m.Shell.Halted() || m.Shell.Rebooting() {
					cancel()
					return nil
				}
			}
		}
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// processInput reads one shell command line at a time, dispatching each through m.Shell and
// writing its output, until ctx is cancelled or in reaches EOF.
func (m *Machine) processInput(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		m.Shell.Run(ctx, scanner.Text(), out)

		if m.Shell.Halted() || m.Shell.Rebooting() {
			return nil
		}
	}

	return scanner.Err()
}
