package netstack

import "github.com/google/gopacket/layers"

const (
	arpOpRequest = 1
	arpOpReply   = 2
	arpPacketLen = 28
)

// arpEntry is one row of the fixed-size ARP cache.
type arpEntry struct {
	ip    IPv4
	mac   MACAddr
	valid bool
}

const arpCacheSize = 16

// arpCache is a small fixed table of (IPv4 -> MAC), per spec.md §3.
type arpCache struct {
	entries [arpCacheSize]arpEntry
}

func (c *arpCache) lookup(ip IPv4) (MACAddr, bool) {
	for _, e := range c.entries {
		if e.valid && e.ip == ip {
			return e.mac, true
		}
	}

	return MACAddr{}, false
}

// set adds or updates the cache entry for ip, evicting the first invalid slot or, failing that,
// slot 0.
func (c *arpCache) set(ip IPv4, mac MACAddr) {
	for i := range c.entries {
		if c.entries[i].valid && c.entries[i].ip == ip {
			c.entries[i].mac = mac
			return
		}
	}

	for i := range c.entries {
		if !c.entries[i].valid {
			c.entries[i] = arpEntry{ip: ip, mac: mac, valid: true}
			return
		}
	}

	c.entries[0] = arpEntry{ip: ip, mac: mac, valid: true}
}

func buildARP(op uint16, srcMAC MACAddr, srcIP IPv4, dstMAC MACAddr, dstIP IPv4) []byte {
	p := make([]byte, arpPacketLen)
	putU16(p[0:2], 1)      // hardware type: Ethernet
	putU16(p[2:4], 0x0800) // protocol type: IPv4
	p[4] = 6               // hardware address length
	p[5] = 4               // protocol address length
	putU16(p[6:8], op)
	copy(p[8:14], srcMAC[:])
	copy(p[14:18], srcIP[:])
	copy(p[18:24], dstMAC[:])
	copy(p[24:28], dstIP[:])

	return p
}

// handleARP processes a received ARP packet: caches the sender, and replies to requests for our
// IP, per network.c's ARP handler.
func (s *Stack) handleARP(srcMAC MACAddr, payload []byte) {
	if len(payload) < arpPacketLen {
		return
	}

	op := getU16(payload[6:8])

	var senderIP, targetIP IPv4
	copy(senderIP[:], payload[14:18])
	copy(targetIP[:], payload[24:28])

	if op != arpOpRequest && op != arpOpReply {
		return
	}

	s.arp.set(senderIP, srcMAC)

	if op == arpOpRequest && targetIP == s.ip {
		reply := buildARP(arpOpReply, s.mac, s.ip, srcMAC, senderIP)
		s.sendEthernet(srcMAC, layers.EthernetTypeARP, reply)
	}
}

func (s *Stack) sendARPRequest(target IPv4) {
	req := buildARP(arpOpRequest, s.mac, s.ip, MACAddr{}, target)
	s.sendEthernet(BroadcastMAC, layers.EthernetTypeARP, req)
}

// resolveARP hits the cache; on miss it emits a request and reports failure -- the caller is
// expected to retry after some ticks, per network.c's arp_lookup contract.
func (s *Stack) resolveARP(ip IPv4) (MACAddr, bool) {
	if mac, ok := s.arp.lookup(ip); ok {
		return mac, true
	}

	s.sendARPRequest(ip)

	return MACAddr{}, false
}
