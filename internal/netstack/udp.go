package netstack

import "github.com/google/gopacket/layers"

const udpHeaderLen = 8

func buildUDP(src, dst IPv4, srcPort, dstPort uint16, payload []byte) []byte {
	h := make([]byte, udpHeaderLen)
	putU16(h[0:2], srcPort)
	putU16(h[2:4], dstPort)
	putU16(h[4:6], uint16(udpHeaderLen+len(payload)))
	putU16(h[6:8], 0) // checksum: optional over IPv4, left zero (not computed)

	return append(h, payload...)
}

// RegisterUDP installs a callback for a destination port, replacing any existing registration for
// that port, per network.c's UDP demux table.
func (s *Stack) RegisterUDP(port uint16, cb udpCallback) {
	s.udpPorts[port] = cb
}

// UnregisterUDP removes a port's callback.
func (s *Stack) UnregisterUDP(port uint16) {
	delete(s.udpPorts, port)
}

// SendUDP builds and sends one UDP datagram.
func (s *Stack) SendUDP(dst IPv4, srcPort, dstPort uint16, payload []byte) {
	datagram := buildUDP(s.ip, dst, srcPort, dstPort, payload)
	s.sendIPv4(dst, layers.IPProtocolUDP, datagram)
}

func (s *Stack) handleUDP(srcMAC MACAddr, srcIP IPv4, data []byte) {
	if len(data) < udpHeaderLen {
		return
	}

	srcPort := getU16(data[0:2])
	dstPort := getU16(data[2:4])
	payload := data[udpHeaderLen:]

	if cb, ok := s.udpPorts[dstPort]; ok {
		cb(srcIP, srcPort, srcMAC, payload)
	}
}
