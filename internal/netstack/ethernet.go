package netstack

import (
	"github.com/google/gopacket/layers"
)

const ethernetHeaderLen = 14

// buildEthernetHeader writes a 14-byte Ethernet II header: dest MAC, src MAC, ethertype.
func buildEthernetHeader(dst, src MACAddr, ethertype layers.EthernetType) []byte {
	h := make([]byte, ethernetHeaderLen)
	copy(h[0:6], dst[:])
	copy(h[6:12], src[:])
	putU16(h[12:14], uint16(ethertype))

	return h
}

// ethernetFrame is a parsed Ethernet II header plus its payload slice.
type ethernetFrame struct {
	Dst, Src  MACAddr
	Ethertype layers.EthernetType
	Payload   []byte
}

func parseEthernet(frame []byte) (ethernetFrame, bool) {
	if len(frame) < ethernetHeaderLen {
		return ethernetFrame{}, false
	}

	var f ethernetFrame
	copy(f.Dst[:], frame[0:6])
	copy(f.Src[:], frame[6:12])
	f.Ethertype = layers.EthernetType(getU16(frame[12:14]))
	f.Payload = frame[ethernetHeaderLen:]

	return f, true
}

// processFrames drains every frame currently pending from the NIC and demultiplexes it, per
// network.c's process_frames: destination must be our MAC or broadcast, then dispatch by
// ethertype.
func (s *Stack) processFrames() {
	buf := make([]byte, 2048)

	for {
		n := s.nic.ReceivePacket(buf)
		if n == 0 {
			return
		}

		s.handleFrame(buf[:n])
	}
}

func (s *Stack) handleFrame(frame []byte) {
	f, ok := parseEthernet(frame)
	if !ok {
		return
	}

	if f.Dst != s.mac && !f.Dst.IsBroadcast() {
		return
	}

	switch f.Ethertype {
	case layers.EthernetTypeARP:
		s.handleARP(f.Src, f.Payload)
	case layers.EthernetTypeIPv4:
		s.handleIPv4(f.Src, f.Payload)
	}
}
