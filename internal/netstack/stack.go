package netstack

import (
	"github.com/brewos/kernel/internal/e1000"
	"github.com/brewos/kernel/internal/log"
	"github.com/google/gopacket/layers"
)

// udpCallback is invoked for a UDP datagram addressed to a registered port.
type udpCallback func(srcIP IPv4, srcPort uint16, srcMAC MACAddr, payload []byte)

// Stack wires one NIC to the protocol handlers above it: ARP cache, UDP port table, ICMP ping
// state, the singleton TCP socket, the DNS resolver, and the DHCP client.
type Stack struct {
	nic *e1000.NIC
	mac MACAddr
	ip  IPv4

	arp arpCache

	udpPorts map[uint16]udpCallback

	ping pingState
	tcp  *TCBSocket
	dns  dnsState
	dhcp dhcpState

	log *log.Logger
}

// New creates a stack bound to nic with no IP address assigned (DHCP or a static Configure call
// sets it).
func New(nic *e1000.NIC) *Stack {
	return &Stack{
		nic:      nic,
		mac:      nic.MACAddress(),
		udpPorts: make(map[uint16]udpCallback),
		log:      log.DefaultLogger(),
	}
}

// Configure sets the stack's IPv4 address directly, bypassing DHCP.
func (s *Stack) Configure(ip IPv4) {
	s.ip = ip
}

// IP returns the stack's current IPv4 address.
func (s *Stack) IP() IPv4 { return s.ip }

// MAC returns the stack's Ethernet address.
func (s *Stack) MAC() MACAddr { return s.mac }

// Poll drains and processes every pending inbound frame. Callers (the kernel's timer tick, or a
// bounded wait loop) invoke it repeatedly; it never blocks.
func (s *Stack) Poll() {
	s.processFrames()
}

// sendEthernet wraps payload in an Ethernet II header and hands it to the NIC. Errors (ring full,
// oversized frame) are logged and swallowed -- per spec.md's error taxonomy, the network stack has
// no exception path; a dropped frame is recovered by the caller's own retry loop.
func (s *Stack) sendEthernet(dst MACAddr, ethertype layers.EthernetType, payload []byte) {
	frame := append(buildEthernetHeader(dst, s.mac, ethertype), payload...)

	if err := s.nic.SendPacket(frame); err != nil {
		s.log.Debug("netstack: send failed", log.String("ERROR", err.Error()))
	}
}
