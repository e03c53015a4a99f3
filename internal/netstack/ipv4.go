package netstack

import "github.com/google/gopacket/layers"

const ipv4HeaderLen = 20

// buildIPv4Header writes a 20-byte IPv4 header with a computed header checksum, per network.c's
// IPv4 send path.
func buildIPv4Header(src, dst IPv4, proto layers.IPProtocol, payloadLen int) []byte {
	h := make([]byte, ipv4HeaderLen)
	h[0] = 0x45 // version 4, IHL 5 (no options)
	h[1] = 0    // DSCP/ECN
	putU16(h[2:4], uint16(ipv4HeaderLen+payloadLen))
	putU16(h[4:6], 0) // identification
	putU16(h[6:8], 0) // flags/fragment offset
	h[8] = 64         // TTL
	h[9] = byte(proto)
	putU16(h[10:12], 0) // checksum placeholder
	copy(h[12:16], src[:])
	copy(h[16:20], dst[:])

	putU16(h[10:12], checksum16(h))

	return h
}

type ipv4Header struct {
	Src, Dst IPv4
	Proto    layers.IPProtocol
	Payload  []byte
}

func parseIPv4(data []byte) (ipv4Header, bool) {
	if len(data) < ipv4HeaderLen {
		return ipv4Header{}, false
	}

	totalLen := int(getU16(data[2:4]))
	if totalLen < ipv4HeaderLen || totalLen > len(data) {
		return ipv4Header{}, false
	}

	if checksum16(data[:ipv4HeaderLen]) != 0 {
		return ipv4Header{}, false
	}

	var h ipv4Header
	copy(h.Src[:], data[12:16])
	copy(h.Dst[:], data[16:20])
	h.Proto = layers.IPProtocol(data[9])
	h.Payload = data[ipv4HeaderLen:totalLen]

	return h, true
}

// sendIPv4 builds an Ethernet+IPv4 frame and transmits it. Broadcast destinations go straight to
// the broadcast MAC; unicast destinations are ARP-resolved, falling back to a single broadcast
// send (which kicks an ARP reply) on a cache miss, per network.c.
func (s *Stack) sendIPv4(dst IPv4, proto layers.IPProtocol, payload []byte) {
	header := buildIPv4Header(s.ip, dst, proto, len(payload))
	packet := append(header, payload...)

	if dst.IsBroadcast() {
		s.sendEthernet(BroadcastMAC, layers.EthernetTypeIPv4, packet)
		return
	}

	mac, ok := s.resolveARP(dst)
	if !ok {
		s.sendEthernet(BroadcastMAC, layers.EthernetTypeIPv4, packet)
		return
	}

	s.sendEthernet(mac, layers.EthernetTypeIPv4, packet)
}

func (s *Stack) handleIPv4(srcMAC MACAddr, data []byte) {
	h, ok := parseIPv4(data)
	if !ok {
		return
	}

	if h.Dst != s.ip && !h.Dst.IsBroadcast() {
		return
	}

	switch h.Proto {
	case layers.IPProtocolUDP:
		s.handleUDP(srcMAC, h.Src, h.Payload)
	case layers.IPProtocolICMPv4:
		s.handleICMP(h.Src, h.Payload)
	case layers.IPProtocolTCP:
		s.handleTCP(h.Src, h.Payload)
	}
}
