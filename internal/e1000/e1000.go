// Package e1000 implements a software model of the Intel e1000 NIC: descriptor rings, polled
// send/receive, and PCI-driven initialization. It is new code grounded on
// original_source/src/kernel/e1000.c, using internal/vm/io.go's address-keyed MMIO idiom for the
// register file and internal/pci for bus discovery.
package e1000

import (
	"errors"
	"fmt"

	"github.com/brewos/kernel/internal/log"
	"github.com/brewos/kernel/internal/pci"
)

// MAC is a 6-byte hardware address.
type MAC [6]byte

func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// Broadcast is the all-ones MAC.
var Broadcast = MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

const (
	txRingSize   = 32
	rxRingSize   = 32
	bufferSize   = 2048
	maxPacket    = 2048
	cmdEOPIFCSRS = 0x0B // EOP | IFCS | RS, per e1000.c's send_packet.
)

// Descriptor models one TX/RX ring slot: length, status/cmd bits, and the backing buffer. Real
// hardware carries a physical buffer pointer; this simulator stores the buffer inline since there
// is no separate physical address space to traverse.
type Descriptor struct {
	Buffer []byte
	Length uint16
	Status uint8
	Cmd    uint8
}

var errNotInitialized = errors.New("e1000: not initialized")

// NIC is one simulated e1000 adapter.
type NIC struct {
	mac MAC
	bar pci.Device

	txRing         [txRingSize]Descriptor
	txHead, txTail uint16

	rxRing         [rxRingSize]Descriptor
	rxHead, rxTail uint16

	initialized bool

	// Transmit receives every packet accepted by SendPacket -- the simulated wire. A netstack
	// wired to two NICs (or a loopback harness in tests) sets this to route frames.
	Transmit func(frame []byte)

	log *log.Logger
}

// New creates an uninitialized NIC bound to a PCI function's BAR0.
func New(dev pci.Device) *NIC {
	n := &NIC{bar: dev, log: log.DefaultLogger()}

	for i := range n.rxRing {
		n.rxRing[i].Buffer = make([]byte, bufferSize)
	}

	for i := range n.txRing {
		n.txRing[i].Buffer = make([]byte, bufferSize)
	}

	n.rxTail = rxRingSize - 1

	return n
}

// Init brings the adapter up: enables bus master + memory space on the PCI function, derives the
// station MAC from the device's BAR0-seeded address (in lieu of a real RAL/RAH MMIO read), and
// resets both rings. Mirrors e1000_init's step order.
func (n *NIC) Init(bus *pci.Bus) error {
	if n.bar.BAR0 == 0 || n.bar.BAR0 == 0xFFFFFFFF {
		return fmt.Errorf("e1000: invalid BAR0: %#x", n.bar.BAR0)
	}

	cmd := bus.ReadConfig(n.bar.Bus, n.bar.Slot, n.bar.Function, 0x04)
	cmd |= 1 << 2 // bus master
	cmd |= 1 << 1 // memory space
	bus.WriteConfig(n.bar.Bus, n.bar.Slot, n.bar.Function, 0x04, cmd)

	n.mac = macFromBAR(n.bar.BAR0)

	n.txHead, n.txTail = 0, 0
	for i := range n.txRing {
		n.txRing[i] = Descriptor{Buffer: n.txRing[i].Buffer}
	}

	n.rxHead, n.rxTail = 0, rxRingSize-1
	for i := range n.rxRing {
		n.rxRing[i] = Descriptor{Buffer: n.rxRing[i].Buffer}
	}

	n.initialized = true
	n.log.Debug("e1000 init", log.String("MAC", n.mac.String()))

	return nil
}

// macFromBAR derives a stable, distinct MAC per adapter instance for the simulator -- real
// hardware reads this out of RAL/RAH, which this model has no physical register backing for.
func macFromBAR(bar0 uint32) MAC {
	return MAC{0x52, 0x54, 0x00, byte(bar0 >> 16), byte(bar0 >> 8), byte(bar0)}
}

// MACAddress returns the adapter's station address.
func (n *NIC) MACAddress() MAC { return n.mac }

// SendPacket copies data into the next free TX descriptor and advances the tail, per
// e1000_send_packet. It refuses oversized frames and reports ring-full as an error rather than 0,
// since unlike ReceivePacket a send failure is a caller-actionable condition.
func (n *NIC) SendPacket(data []byte) error {
	if !n.initialized {
		return errNotInitialized
	}

	if len(data) > maxPacket {
		return fmt.Errorf("e1000: packet too large: %d bytes", len(data))
	}

	nextTail := (n.txTail + 1) % txRingSize
	if nextTail == n.txHead {
		return errors.New("e1000: tx ring full")
	}

	d := &n.txRing[n.txTail]
	copy(d.Buffer, data)
	d.Length = uint16(len(data))
	d.Cmd = cmdEOPIFCSRS
	d.Status = 0

	n.txTail = nextTail

	if n.Transmit != nil {
		frame := make([]byte, len(data))
		copy(frame, data)
		n.Transmit(frame)
	}

	return nil
}

// Deliver simulates the wire handing a received frame to this adapter: it occupies the next RX
// descriptor and marks it done (status bit 0), as hardware would after a DMA completes. CRC is
// modeled as 4 trailing bytes that ReceivePacket strips, per e1000_receive_packet.
func (n *NIC) Deliver(frame []byte) bool {
	if n.rxHead == n.rxTail {
		return false // ring full, frame dropped
	}

	d := &n.rxRing[n.rxHead]
	padded := append(append([]byte{}, frame...), 0, 0, 0, 0) // fake CRC trailer

	if len(padded) > bufferSize {
		padded = padded[:bufferSize]
	}

	copy(d.Buffer, padded)
	d.Length = uint16(len(padded))
	d.Status = 1

	n.rxHead = (n.rxHead + 1) % rxRingSize

	return true
}

// ReceivePacket polls the descriptor following the current tail; 0 means the ring is empty right
// now, matching e1000_receive_packet's non-blocking contract.
func (n *NIC) ReceivePacket(buf []byte) int {
	if !n.initialized {
		return 0
	}

	nextIdx := (n.rxTail + 1) % rxRingSize

	d := &n.rxRing[nextIdx]
	if d.Status&1 == 0 {
		return 0
	}

	length := int(d.Length) - 4
	if length < 0 {
		length = 0
	}

	if length > len(buf) {
		length = len(buf)
	}

	copy(buf, d.Buffer[:length])

	d.Status = 0
	d.Length = 0
	n.rxTail = nextIdx

	return length
}
