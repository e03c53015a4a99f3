package netstack

import "time"

const (
	dhcpClientPort = 68
	dhcpServerPort = 67
	dhcpMagic      = 0x63825363

	dhcpDiscover = 1
	dhcpOffer    = 2
	dhcpRequest  = 3
	dhcpAck      = 5
	dhcpNak      = 6

	dhcpMinLen   = 240
	dhcpWaitEach = 3 * time.Second
)

// DHCPState is the client's DISCOVER -> OFFER -> REQUEST -> ACK/NAK state machine, per spec.md
// §4.6.
type DHCPState int

const (
	DHCPInit DHCPState = iota
	DHCPOffered
	DHCPBound
)

type dhcpState struct {
	xid       uint32
	state     DHCPState
	offeredIP IPv4
	serverID  IPv4
	dnsServer IPv4
}

func buildDHCPPacket(xid uint32, mac MACAddr, msgType uint8, requestedIP, serverID IPv4) []byte {
	p := make([]byte, dhcpMinLen)
	p[0] = 1 // BOOTREQUEST
	p[1] = 1 // htype: Ethernet
	p[2] = 6 // hlen
	p[3] = 0 // hops
	putU32(p[4:8], xid)
	putU16(p[8:10], 0)       // secs
	putU16(p[10:12], 0x8000) // broadcast flag
	// ciaddr/yiaddr/siaddr/giaddr stay zero at [12:28]
	copy(p[28:34], mac[:])
	// 202 bytes of BOOTP legacy fields (sname/file) stay zero
	putU32(p[236:240], dhcpMagic)

	opts := []byte{53, 1, msgType}

	if requestedIP != (IPv4{}) {
		opts = append(opts, 50, 4)
		opts = append(opts, requestedIP[:]...)
	}

	if serverID != (IPv4{}) {
		opts = append(opts, 54, 4)
		opts = append(opts, serverID[:]...)
	}

	opts = append(opts, 55, 3, 1, 3, 6) // parameter request list: subnet, router, DNS
	opts = append(opts, 0xFF)           // end

	return append(p, opts...)
}

func parseDHCPOptions(data []byte) map[uint8][]byte {
	opts := make(map[uint8][]byte)

	i := dhcpMinLen
	for i < len(data) {
		code := data[i]
		if code == 0xFF {
			break
		}

		if code == 0 {
			i++
			continue
		}

		if i+1 >= len(data) {
			break
		}

		length := int(data[i+1])
		if i+2+length > len(data) {
			break
		}

		opts[code] = data[i+2 : i+2+length]
		i += 2 + length
	}

	return opts
}

// DHCPAcquire runs the full DISCOVER/OFFER/REQUEST/ACK exchange and, on success, configures the
// stack's IP address and learned DNS server. It mirrors the original client's two-phase
// busy-polling loop.
func (s *Stack) DHCPAcquire() bool {
	s.dhcp = dhcpState{xid: 0xC0FFEE}

	s.RegisterUDP(dhcpClientPort, s.handleDHCPReply)
	defer s.UnregisterUDP(dhcpClientPort)

	discover := buildDHCPPacket(s.dhcp.xid, s.mac, dhcpDiscover, IPv4{}, IPv4{})
	s.SendUDP(BroadcastIP, dhcpServerPort, dhcpClientPort, discover)

	if !s.waitForDHCPState(DHCPOffered) {
		return false
	}

	request := buildDHCPPacket(s.dhcp.xid, s.mac, dhcpRequest, s.dhcp.offeredIP, s.dhcp.serverID)
	s.SendUDP(BroadcastIP, dhcpServerPort, dhcpClientPort, request)

	if !s.waitForDHCPState(DHCPBound) {
		return false
	}

	s.ip = s.dhcp.offeredIP

	return true
}

func (s *Stack) waitForDHCPState(target DHCPState) bool {
	deadline := time.Now().Add(dhcpWaitEach)

	for s.dhcp.state != target && time.Now().Before(deadline) {
		s.processFrames()
	}

	return s.dhcp.state == target
}

func (s *Stack) handleDHCPReply(src IPv4, srcPort uint16, srcMAC MACAddr, payload []byte) {
	if len(payload) < dhcpMinLen+4 || getU32(payload[236:240]) != dhcpMagic {
		return
	}

	if getU32(payload[4:8]) != s.dhcp.xid {
		return
	}

	opts := parseDHCPOptions(payload)

	msgType, ok := opts[53]
	if !ok || len(msgType) != 1 {
		return
	}

	var yiaddr IPv4
	copy(yiaddr[:], payload[16:20])

	switch msgType[0] {
	case dhcpOffer:
		s.dhcp.offeredIP = yiaddr

		if sid, ok := opts[54]; ok && len(sid) == 4 {
			copy(s.dhcp.serverID[:], sid)
		}

		s.dhcp.state = DHCPOffered
	case dhcpAck:
		if dns, ok := opts[6]; ok && len(dns) >= 4 {
			copy(s.dhcp.dnsServer[:], dns[:4])
		}

		s.dhcp.state = DHCPBound
	case dhcpNak:
		s.dhcp.state = DHCPInit
	}
}
