package netstack

import (
	"fmt"
	"time"

	"github.com/google/gopacket/layers"
)

const (
	icmpEchoRequest = 8
	icmpEchoReply   = 0
	icmpHeaderLen   = 8
	pingPayloadLen  = 8
	pingCount       = 4
	pingTimeout     = 3 * time.Second
)

type pingState struct {
	active   bool
	id       uint16
	seq      uint16
	replied  bool
	replySeq uint16
}

func buildICMPEcho(icmpType uint8, id, seq uint16) []byte {
	payload := make([]byte, pingPayloadLen)
	for i := range payload {
		payload[i] = byte(i)
	}

	h := make([]byte, icmpHeaderLen)
	h[0] = icmpType
	h[1] = 0 // code
	putU16(h[2:4], 0) // checksum placeholder
	putU16(h[4:6], id)
	putU16(h[6:8], seq)

	packet := append(h, payload...)
	putU16(packet[2:4], checksum16(packet))

	return packet
}

func (s *Stack) handleICMP(src IPv4, data []byte) {
	if len(data) < icmpHeaderLen {
		return
	}

	icmpType := data[0]
	id := getU16(data[4:6])
	seq := getU16(data[6:8])

	if icmpType != icmpEchoReply {
		return
	}

	if s.ping.active && id == s.ping.id {
		s.ping.replied = true
		s.ping.replySeq = seq
	}
}

// Ping sends 4 ICMP echo requests to dst, polling for replies up to ~3 seconds each, and returns a
// human-readable transcript line per attempt -- mirroring icmp.c's ping.
func (s *Stack) Ping(dst IPv4, id uint16) []string {
	var lines []string

	s.ping = pingState{active: true, id: id}

	for seq := uint16(1); seq <= pingCount; seq++ {
		s.ping.replied = false
		s.ping.replySeq = 0

		packet := buildICMPEcho(icmpEchoRequest, id, seq)
		s.sendIPv4(dst, layers.IPProtocolICMPv4, packet)

		deadline := time.Now().Add(pingTimeout)
		for !s.ping.replied && time.Now().Before(deadline) {
			s.processFrames()
		}

		if s.ping.replied {
			lines = append(lines, fmt.Sprintf("reply from %s: seq=%d", dst, s.ping.replySeq))
		} else {
			lines = append(lines, "timeout")
		}
	}

	s.ping.active = false

	return lines
}
