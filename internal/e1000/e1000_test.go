package e1000

import (
	"bytes"
	"testing"

	"github.com/brewos/kernel/internal/pci"
)

func newTestNIC(t *testing.T, bar uint32) *NIC {
	t.Helper()

	bus := pci.NewBus()
	dev := pci.Device{Bus: 0, Slot: 3, VendorID: 0x8086, DeviceID: 0x100e, BAR0: bar}
	bus.Attach(dev)

	nic := New(dev)
	if err := nic.Init(bus); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	return nic
}

func TestInitAssignsStableMAC(t *testing.T) {
	a := newTestNIC(t, 0xfebc0000)
	b := newTestNIC(t, 0xfebc0000)

	if a.MACAddress() != b.MACAddress() {
		t.Error("same BAR0 should derive the same MAC deterministically")
	}
}

func TestSendThenDeliverRoundTrip(t *testing.T) {
	nic := newTestNIC(t, 0xfebc0000)

	var wire []byte
	nic.Transmit = func(frame []byte) { wire = frame }

	payload := []byte("hello ethernet")
	if err := nic.SendPacket(payload); err != nil {
		t.Fatalf("SendPacket failed: %v", err)
	}

	if !bytes.Equal(wire, payload) {
		t.Errorf("transmitted frame = %q, want %q", wire, payload)
	}

	if !nic.Deliver(payload) {
		t.Fatal("Deliver should accept into an empty rx ring")
	}

	buf := make([]byte, 64)
	n := nic.ReceivePacket(buf)

	if n != len(payload) {
		t.Fatalf("received %d bytes, want %d", n, len(payload))
	}

	if !bytes.Equal(buf[:n], payload) {
		t.Errorf("received payload = %q, want %q", buf[:n], payload)
	}
}

func TestReceiveEmptyRingReturnsZero(t *testing.T) {
	nic := newTestNIC(t, 0xfebc0000)

	buf := make([]byte, 64)
	if n := nic.ReceivePacket(buf); n != 0 {
		t.Errorf("ReceivePacket on empty ring = %d, want 0", n)
	}
}

func TestSendRefusesOversizedPacket(t *testing.T) {
	nic := newTestNIC(t, 0xfebc0000)

	big := make([]byte, 4096)
	if err := nic.SendPacket(big); err == nil {
		t.Error("SendPacket should refuse a packet larger than 2048 bytes")
	}
}

func TestSendFailsWhenRingFull(t *testing.T) {
	nic := newTestNIC(t, 0xfebc0000)

	var sent int
	nic.Transmit = func([]byte) { sent++ }

	var lastErr error
	for i := 0; i < txRingSize; i++ {
		lastErr = nic.SendPacket([]byte("x"))
	}

	if lastErr == nil {
		t.Error("filling the tx ring should eventually report full")
	}
}
