// Package netstack implements the kernel's network stack above the e1000 driver: Ethernet demux,
// an ARP cache, IPv4 send/receive with checksum, a UDP port-callback table, ICMP echo, a singleton
// TCP socket, a DNS resolver with compressed-label parsing, and a DHCP client state machine. It is
// new code grounded on original_source/src/kernel/network.c, tcp.c, dns.c, icmp.c, and http.c,
// using the ethertype/protocol-number vocabulary of github.com/google/gopacket/layers (adopted
// from the broader example pack) rather than inventing magic numbers locally.
package netstack

import "fmt"

// MACAddr is a 6-byte Ethernet hardware address.
type MACAddr [6]byte

func (m MACAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// BroadcastMAC is the all-ones MAC.
var BroadcastMAC = MACAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

func (m MACAddr) IsBroadcast() bool { return m == BroadcastMAC }

// IPv4 is a 4-byte IPv4 address.
type IPv4 [4]byte

func (ip IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], ip[3])
}

// BroadcastIP is 255.255.255.255.
var BroadcastIP = IPv4{255, 255, 255, 255}

func (ip IPv4) IsBroadcast() bool { return ip == BroadcastIP }

func putU16(b []byte, v uint16) { b[0] = byte(v >> 8); b[1] = byte(v) }
func putU32(b []byte, v uint32) { b[0] = byte(v >> 24); b[1] = byte(v >> 16); b[2] = byte(v >> 8); b[3] = byte(v) }
func getU16(b []byte) uint16    { return uint16(b[0])<<8 | uint16(b[1]) }
func getU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// checksum16 computes the one's-complement-of-sum-of-16-bit-words Internet checksum used by IPv4,
// UDP, TCP, and ICMP.
func checksum16(data []byte) uint16 {
	var sum uint32

	for i := 0; i+1 < len(data); i += 2 {
		sum += uint32(data[i])<<8 | uint32(data[i+1])
	}

	if len(data)%2 == 1 {
		sum += uint32(data[len(data)-1]) << 8
	}

	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}

	return ^uint16(sum)
}
