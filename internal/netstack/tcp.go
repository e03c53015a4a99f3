package netstack

import (
	"time"

	"github.com/google/gopacket/layers"
)

const (
	tcpHeaderLen = 20

	flagFIN = 0x01
	flagSYN = 0x02
	flagACK = 0x10

	tcpRXBufSize   = 4096
	connectTimeout = 3 * time.Second
)

// TCPState is the singleton socket's lifecycle state, per spec.md §4.6.
type TCPState int

const (
	TCPClosed TCPState = iota
	TCPSynSent
	TCPEstablished
)

// TCBSocket is the kernel's one and only TCP socket -- a single global connection, not a pool, per
// spec.md §3.
type TCBSocket struct {
	RemoteIP   IPv4
	RemotePort uint16
	LocalPort  uint16

	SendSeq uint32
	RecvAck uint32

	State     TCPState
	Connected bool

	rxBuf []byte
}

// Read drains up to len(buf) bytes from the socket's receive buffer (FIFO, oldest first).
func (t *TCBSocket) Read(buf []byte) int {
	n := copy(buf, t.rxBuf)
	t.rxBuf = t.rxBuf[n:]

	return n
}

var ephemeralPort uint16 = 49152

func nextEphemeralPort() uint16 {
	p := ephemeralPort
	ephemeralPort++

	if ephemeralPort == 0 {
		ephemeralPort = 49152
	}

	return p
}

func buildTCP(srcPort, dstPort uint16, seq, ack uint32, flags uint8, window uint16, payload []byte, src, dst IPv4) []byte {
	h := make([]byte, tcpHeaderLen)
	putU16(h[0:2], srcPort)
	putU16(h[2:4], dstPort)
	putU32(h[4:8], seq)
	putU32(h[8:12], ack)
	h[12] = (tcpHeaderLen / 4) << 4 // data offset, no options
	h[13] = flags
	putU16(h[14:16], window)
	putU16(h[16:18], 0) // checksum placeholder
	putU16(h[18:20], 0) // urgent pointer

	segment := append(h, payload...)

	// Pseudo-header: src IP, dst IP, zero, protocol, TCP length.
	pseudo := make([]byte, 12)
	copy(pseudo[0:4], src[:])
	copy(pseudo[4:8], dst[:])
	pseudo[8] = 0
	pseudo[9] = byte(layers.IPProtocolTCP)
	putU16(pseudo[10:12], uint16(len(segment)))

	putU16(segment[16:18], checksum16(append(pseudo, segment...)))

	return segment
}

// Connect allocates the singleton socket, emits a SYN, and busy-polls until ESTABLISHED or a
// ~3-second timeout, per tcp.c's connect. On timeout the socket is released and nil is returned.
func (s *Stack) Connect(remote IPv4, port uint16) *TCBSocket {
	sock := &TCBSocket{
		RemoteIP:   remote,
		RemotePort: port,
		LocalPort:  nextEphemeralPort(),
		SendSeq:    1000,
		State:      TCPSynSent,
	}
	s.tcp = sock

	syn := buildTCP(sock.LocalPort, port, sock.SendSeq, 0, flagSYN, tcpRXBufSize, nil, s.ip, remote)
	sock.SendSeq++ // SYN consumes one sequence number
	s.sendIPv4(remote, layers.IPProtocolTCP, syn)

	deadline := time.Now().Add(connectTimeout)
	for !sock.Connected && time.Now().Before(deadline) {
		s.processFrames()
	}

	if !sock.Connected {
		s.tcp = nil
		return nil
	}

	return sock
}

// handleTCP implements the singleton socket's receive-side state machine, per tcp.c.
func (s *Stack) handleTCP(src IPv4, data []byte) {
	sock := s.tcp
	if sock == nil || len(data) < tcpHeaderLen || src != sock.RemoteIP {
		return
	}

	srcPort := getU16(data[0:2])
	if srcPort != sock.RemotePort {
		return
	}

	theirSeq := getU32(data[4:8])
	flags := data[13]
	payload := data[tcpHeaderLen:]

	switch sock.State {
	case TCPSynSent:
		if flags&flagSYN != 0 && flags&flagACK != 0 {
			sock.RecvAck = theirSeq + 1
			sock.State = TCPEstablished
			sock.Connected = true
			s.sendTCPAck(sock)
		}
	case TCPEstablished:
		switch {
		case flags&flagFIN != 0:
			sock.RecvAck = theirSeq + 1
			s.sendTCPSegment(sock, flagFIN|flagACK, nil)
			sock.State = TCPClosed
			sock.Connected = false
		case len(payload) > 0:
			room := tcpRXBufSize - len(sock.rxBuf)
			if room > len(payload) {
				room = len(payload)
			}

			sock.rxBuf = append(sock.rxBuf, payload[:room]...)
			sock.RecvAck = theirSeq + uint32(len(payload))
			s.sendTCPAck(sock)
		}
	}
}

func (s *Stack) sendTCPSegment(sock *TCBSocket, flags uint8, payload []byte) {
	seg := buildTCP(sock.LocalPort, sock.RemotePort, sock.SendSeq, sock.RecvAck, flags, tcpRXBufSize, payload, s.ip, sock.RemoteIP)
	s.sendIPv4(sock.RemoteIP, layers.IPProtocolTCP, seg)
	sock.SendSeq += uint32(len(payload))
}

func (s *Stack) sendTCPAck(sock *TCBSocket) {
	s.sendTCPSegment(sock, flagACK, nil)
}

// Send writes payload on the established singleton socket.
func (s *Stack) Send(sock *TCBSocket, payload []byte) {
	if sock.State != TCPEstablished {
		return
	}

	s.sendTCPSegment(sock, flagACK, payload)
}
